package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// NotificationController serves the caller's notification inbox and the
// admin broadcast endpoint.
type NotificationController struct {
	notifications *services.NotificationService
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// Create broadcasts a notification to the resolved audience.
func (c *NotificationController) Create(ctx *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	n, delivered, err := c.notifications.Create(ctx.Request.Context(), currentUser(ctx), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, "notification sent", gin.H{
		"notification": n,
		"recipients":   delivered,
	})
}

// List returns the caller's notifications, optionally unread only.
func (c *NotificationController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	rows, total, err := c.notifications.ListForUser(ctx.Request.Context(),
		currentUser(ctx).ID, ctx.Query("unread") == "true", page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(rows, page.Meta(total)))
}

// UnreadCount returns the caller's unread notification count.
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	count, err := c.notifications.UnreadCount(ctx.Request.Context(), currentUser(ctx).ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", gin.H{"unread": count})
}

// MarkRead marks one notification as read.
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.notifications.MarkRead(ctx.Request.Context(), currentUser(ctx).ID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "notification marked read", nil)
}

// MarkAllRead marks all of the caller's notifications as read.
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	if err := c.notifications.MarkAllRead(ctx.Request.Context(), currentUser(ctx).ID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "notifications marked read", nil)
}

// Delete removes one of the caller's notification rows.
func (c *NotificationController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.notifications.Delete(ctx.Request.Context(), currentUser(ctx).ID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "notification deleted", nil)
}
