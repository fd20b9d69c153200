package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type voteRequest struct {
	ID        string `json:"id" binding:"required"`
	VoterID   string `json:"voter_id" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type voteResponse struct {
	Msg       string   `json:"msg"`
	UpVotes   []string `json:"up_votes"`
	DownVotes []string `json:"down_votes"`
}

// Vote 对问题/回答/评论投票（三态翻转）
// @Summary 投票
// @Tags 投票
// @Accept json
// @Produce json
// @Param kind path string true "帖子类型" Enums(question, answer, comment)
// @Param request body voteRequest true "投票信息"
// @Success 200 {object} response.Response{data=voteResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/vote/{kind} [post]
func (h *Handler) Vote(c *gin.Context) {
	kind := model.PostKind(c.Param("kind"))
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.votes.Apply(c.Request.Context(), kind, req.ID, req.VoterID, req.Direction)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, voteResponse{
		Msg:       "vote applied",
		UpVotes:   res.UpVoters,
		DownVotes: res.DownVoters,
	})
}

// writeServiceError 统一映射服务层错误分类
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
