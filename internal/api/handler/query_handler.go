package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/pkg/response"
)

// GetQuestion 读取全量展开的问题树；读路径走快照缓存，未命中回源并回填
// @Summary 查询问题（全量嵌套视图）
// @Tags 问答
// @Produce json
// @Param id path string true "问题ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/questions/{id} [get]
func (h *Handler) GetQuestion(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	if data := h.cache.Get(ctx, id); data != nil {
		c.Data(http.StatusOK, "application/json", data)
		return
	}
	snap, err := h.populator.Question(ctx, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if payload, err := json.Marshal(response.Response{Code: 0, Msg: "ok", Data: snap}); err == nil {
		h.cache.Set(ctx, id, payload)
		c.Data(http.StatusOK, "application/json", payload)
		return
	}
	response.Success(c, snap)
}

// GetUser 用户档案 + 收件箱
// @Summary 查询用户档案
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	snap, err := h.populator.User(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}

// GetTag 标签与订阅者集合
// @Summary 查询标签
// @Tags 标签
// @Produce json
// @Param name path string true "标签名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/tags/{name} [get]
func (h *Handler) GetTag(c *gin.Context) {
	snap, err := h.populator.Tag(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}
