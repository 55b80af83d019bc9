package middleware

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
)

// AuditLog records write operations (POST/PUT/DELETE) to system_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		// Only audit write operations
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		// Capture request body (up to 2000 chars for Extra)
		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 2000 {
				bodySnippet = bodySnippet[:2000] + "...[truncated]"
			}
			bodySnippet = maskPasswordFields(bodySnippet)
		}

		c.Next()

		// After handler — record audit log
		userID := GetUserID(c)
		username := GetUsername(c)
		status := c.Writer.Status()

		module, action := parseRouteInfo(c.FullPath(), method)
		message := fmt.Sprintf("%s %s %s -> %d", username, method, c.Request.URL.Path, status)

		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		services.LogInfo(module, action, message, uid, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"method":     method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"body":       bodySnippet,
			"request_id": GetRequestID(c),
		})
	}
}

var passwordFieldRe = regexp.MustCompile(`"(password|old_password|new_password)"\s*:\s*"[^"]*"`)

// maskPasswordFields blanks credential values in a JSON body snippet.
func maskPasswordFields(body string) string {
	return passwordFieldRe.ReplaceAllString(body, `"$1":"****"`)
}

// parseRouteInfo derives an audit module/action from the route path.
func parseRouteInfo(fullPath, method string) (string, string) {
	trimmed := strings.TrimPrefix(fullPath, "/api/")
	parts := strings.Split(trimmed, "/")
	module := "api"
	if len(parts) > 0 && parts[0] != "" {
		module = parts[0]
	}

	var action string
	switch method {
	case "POST":
		action = "create"
	case "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}

	if len(parts) > 2 {
		action = action + ":" + parts[2]
	}
	return module, action
}
