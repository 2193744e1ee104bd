package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform envelope for API responses.
type JSONResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Respond writes a JSON response with the given HTTP status code.
func Respond(ctx *gin.Context, httpStatus int, status, message string, data, errDetail interface{}) {
	ctx.JSON(httpStatus, JSONResponse{
		Status:  status,
		Message: message,
		Data:    data,
		Error:   errDetail,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusOK, "success", message, data, nil)
}

// Created returns a success response with a 201 status.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusCreated, "success", message, data, nil)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, httpStatus int, message string) {
	Respond(ctx, httpStatus, "error", message, nil, nil)
}

// ValidationFailed returns a 422 response carrying per-field messages.
func ValidationFailed(ctx *gin.Context, fields map[string]string) {
	Respond(ctx, http.StatusUnprocessableEntity, "error", "validation failed", nil, fields)
}
