package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type subscribeRequest struct {
	ID         string `json:"id" binding:"required"`
	EntityKind string `json:"entity_kind" binding:"required,oneof=question tag"`
	UserID     string `json:"user_id" binding:"required"`
}

// Subscribe 翻转订阅（在订→退订，未订→订阅）
// @Summary 订阅/退订问题或标签
// @Tags 订阅
// @Accept json
// @Produce json
// @Param request body subscribeRequest true "订阅信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.subs.Toggle(c.Request.Context(), model.EntityKind(req.EntityKind), req.ID, req.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, res)
}
