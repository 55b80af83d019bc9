package main

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/handlers"
	"github.com/openlabtools/labregistry/internal/middleware"
	"github.com/openlabtools/labregistry/internal/models"
	"github.com/openlabtools/labregistry/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// Rate limiter for write routes
	writeLimiter := middleware.NewRateLimiter(10, 20)

	db := models.GetDB()

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	memberHandler := handlers.NewMemberHandler(db, svc.workService)
	projectHandler := handlers.NewProjectHandler(db)
	workHandler := handlers.NewWorkHandler(svc.workService)
	equipmentHandler := handlers.NewEquipmentHandler(db)
	grantHandler := handlers.NewGrantHandler(db)
	publicationHandler := handlers.NewPublicationHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	systemLogHandler := handlers.NewSystemLogHandler(db)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes (read access for all authenticated users)
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Members
			protected.GET("/members", memberHandler.List)
			protected.GET("/members/:mid", memberHandler.Get)
			protected.GET("/members/:mid/work", memberHandler.ListWork)

			// Projects
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:pid", projectHandler.Get)

			// Work assignments
			protected.GET("/work/weekly-total", workHandler.WeeklyTotal)

			// Equipment
			protected.GET("/equipment", equipmentHandler.List)
			protected.GET("/equipment/:eid", equipmentHandler.Get)
			protected.GET("/equipment/:eid/active-users", equipmentHandler.ActiveUsers)

			// Grants
			protected.GET("/grants", grantHandler.List)
			protected.GET("/grants/:gid", grantHandler.Get)
			protected.GET("/grants/:gid/members", grantHandler.Members)

			// Publications
			protected.GET("/publications", publicationHandler.List)
			protected.GET("/publications/:id", publicationHandler.Get)

			// Reports
			protected.GET("/reports/top-publishers", reportHandler.TopPublishers)
			protected.GET("/reports/avg-publications-by-major", reportHandler.AvgPublicationsByMajor)
			protected.GET("/reports/grants/:gid/top-members", reportHandler.TopForGrant)
			protected.GET("/reports/projects/:pid/mentorship", reportHandler.MentorshipByProject)
		}

		// Admin only routes (all writes, audited and rate limited)
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(),
			writeLimiter.Middleware(), middleware.AuditLog())
		{
			// Members
			admin.POST("/members", memberHandler.Create)
			admin.POST("/members/:mid/subtype", memberHandler.CreateSubtype)
			admin.PUT("/members/:mid/name", memberHandler.UpdateName)
			admin.PUT("/members/:mid/mentor", memberHandler.UpdateMentor)
			admin.PUT("/members/:mid/kind", memberHandler.UpdateKind)
			admin.DELETE("/members/:mid", memberHandler.Delete)

			// Projects
			admin.POST("/projects", projectHandler.Create)
			admin.PUT("/projects/:pid/title", projectHandler.UpdateTitle)
			admin.PUT("/projects/:pid/lead", projectHandler.UpdateLead)
			admin.DELETE("/projects/:pid", projectHandler.Delete)

			// Work assignments
			admin.POST("/work", workHandler.Record)
			admin.DELETE("/work/:pid/:mid/:week", workHandler.Delete)

			// Equipment
			admin.POST("/equipment", equipmentHandler.Create)
			admin.PUT("/equipment/:eid/status", equipmentHandler.UpdateStatus)
			admin.DELETE("/equipment/:eid", equipmentHandler.Delete)
			admin.POST("/equipment/:eid/usage/start", equipmentHandler.StartUsage)
			admin.POST("/equipment/:eid/usage/end", equipmentHandler.EndUsage)

			// Grants
			admin.POST("/grants", grantHandler.Create)
			admin.POST("/grants/:gid/fund", grantHandler.FundProject)
			admin.DELETE("/grants/:gid", grantHandler.Delete)

			// Publications
			admin.POST("/publications", publicationHandler.Create)
			admin.POST("/publications/:id/authors", publicationHandler.AddAuthor)
			admin.DELETE("/publications/:id", publicationHandler.Delete)

			// System Logs
			admin.GET("/system-logs", systemLogHandler.List)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
