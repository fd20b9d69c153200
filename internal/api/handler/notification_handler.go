package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/pkg/response"
)

type markReadRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	NotificationID string `json:"notification_id" binding:"required"`
}

// MarkNotificationRead 标记通知已读，返回更新后的用户档案
// @Summary 通知已读
// @Tags 通知
// @Accept json
// @Produce json
// @Param request body markReadRequest true "已读信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	snap, err := h.posts.MarkNotificationRead(c.Request.Context(), req.UserID, req.NotificationID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}
