package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/auth"
	"github.com/d60-Lab/qa-forum/pkg/logger"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AttachWS 升级 websocket 并挂入广播器。
// token 合法时连接鉴权为对应用户，可收个人通知；无 token 只收公共广播。
// @Summary 建立实时推送连接
// @Tags 推送
// @Param token query string false "JWT"
// @Router /ws [get]
func (h *Handler) AttachWS(c *gin.Context) {
	userID := ""
	if token := c.Query("token"); token != "" {
		uid, err := auth.Parse(h.jwtSecret, token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		userID = uid
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := h.hub.Attach(conn, userID)
	logger.Info("websocket client connected", zap.String("user", userID))
	go client.WritePump()
	client.ReadLoop()
}
