package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

// handleDomainError maps service-layer errors to HTTP responses.
func handleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateIdentifier):
		response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUnknownMember),
		errors.Is(err, services.ErrUnknownProject),
		errors.Is(err, services.ErrUnknownEquipment),
		errors.Is(err, services.ErrUnknownGrant),
		errors.Is(err, services.ErrUnknownPublication),
		errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSelfMentor),
		errors.Is(err, services.ErrMentorNotFaculty),
		errors.Is(err, services.ErrSubtypeTypeMismatch),
		errors.Is(err, services.ErrLeadNotFaculty),
		errors.Is(err, services.ErrWeeklyHourCapExceeded):
		response.Error(c, response.NewUnprocessable(err.Error()))
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidHours),
		errors.Is(err, services.ErrImmutableField):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrReferentialBlock):
		response.Conflict(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
