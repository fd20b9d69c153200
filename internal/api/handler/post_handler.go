package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type createQuestionRequest struct {
	Title    string   `json:"title" binding:"required"`
	Body     string   `json:"body"`
	AuthorID string   `json:"author_id" binding:"required"`
	Tags     []string `json:"tags" binding:"omitempty,dive,tagname"`
}

// CreateQuestion 发布问题并通知标签订阅者
// @Summary 发布问题
// @Tags 问答
// @Accept json
// @Produce json
// @Param request body createQuestionRequest true "问题内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/questions [post]
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	snap, err := h.posts.CreateQuestion(c.Request.Context(), req.Title, req.Body, req.AuthorID, req.Tags)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}

type postAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	AuthorID   string `json:"author_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// PostAnswer 发布回答并 fanout 通知
// @Summary 发布回答
// @Tags 问答
// @Accept json
// @Produce json
// @Param request body postAnswerRequest true "回答内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/answers [post]
func (h *Handler) PostAnswer(c *gin.Context) {
	var req postAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	snap, err := h.posts.PostAnswer(c.Request.Context(), req.QuestionID, req.AuthorID, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}

type postCommentRequest struct {
	ParentKind string `json:"parent_kind" binding:"required,oneof=question answer"`
	ParentID   string `json:"parent_id" binding:"required"`
	AuthorID   string `json:"author_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// PostComment 发布评论（父帖为问题或回答）
// @Summary 发布评论
// @Tags 问答
// @Accept json
// @Produce json
// @Param request body postCommentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/comments [post]
func (h *Handler) PostComment(c *gin.Context) {
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	snap, err := h.posts.PostComment(c.Request.Context(),
		model.PostKind(req.ParentKind), req.ParentID, req.AuthorID, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, snap)
}

type recordViewRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// RecordView 记录浏览（异步落库，随后广播 viewsUpdate）
// @Summary 记录问题浏览
// @Tags 问答
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param request body recordViewRequest true "浏览者"
// @Success 200 {object} response.Response
// @Router /api/v1/questions/{id}/view [post]
func (h *Handler) RecordView(c *gin.Context) {
	var req recordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.views.Enqueue(c.Param("id"), req.UserID)
	response.Success(c, nil)
}
