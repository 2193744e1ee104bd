// Package controllers implements the HTTP handlers for the /api/v1 surface.
// Handlers bind and validate input, delegate to services, and translate
// service errors into the response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mubbi/blogapi/middleware"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

func currentUser(ctx *gin.Context) *models.User {
	return middleware.CurrentUser(ctx)
}

// respondServiceError maps service sentinel errors onto the error taxonomy:
// validation -> 422, not found -> 404, forbidden -> 403, everything else 500.
func respondServiceError(ctx *gin.Context, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		utils.ValidationFailed(ctx, ve.Fields)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, "resource not found")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusUnprocessableEntity, "conflict")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// uintParam parses a numeric path parameter. Returns 0 and writes a 404 when
// the value is not a positive integer, since such URLs address nothing.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || v == 0 {
		utils.Error(ctx, http.StatusNotFound, "resource not found")
		return 0, false
	}
	return uint(v), true
}

// mapGormNotFound converts a gorm record-not-found error to the service
// sentinel so respondServiceError renders it as a 404.
func mapGormNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

// parseQueryUint parses an optional numeric query value; absent values
// return an error so callers can skip the filter.
func parseQueryUint(ctx *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	return uint(v), err
}

func listEnvelope(items interface{}, meta map[string]interface{}) gin.H {
	return gin.H{"items": items, "pagination": meta}
}
