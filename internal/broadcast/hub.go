package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// 广播事件名，payload 一律是变更后的权威状态（不发增量）
const (
	EventVoteUpdate         = "voteUpdate"
	EventAnswerUpdate       = "answerUpdate"
	EventCommentUpdate      = "commentUpdate"
	EventSubscriberUpdate   = "subscriberUpdate"
	EventViewsUpdate        = "viewsUpdate"
	EventNotificationUpdate = "notificationUpdate"
)

const writeWait = 10 * time.Second

// Message 推送给客户端的单条事件
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Client 一条已鉴权的 websocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan Message
	once   sync.Once
}

// Hub 进程级广播器：构造一次、注入各组件，生命周期同进程。
// 发送尽力而为：不落盘、不重试、至多一次。
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	byUser     map[string]map[*Client]struct{}
	sendBuffer int
}

func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		byUser:     make(map[string]map[*Client]struct{}),
		sendBuffer: sendBuffer,
	}
}

// Attach 注册连接并返回 client；调用方负责跑 WritePump/ReadLoop
func (h *Hub) Attach(conn *websocket.Conn, userID string) *Client {
	c := &Client{hub: h, conn: conn, userID: userID, send: make(chan Message, h.sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if userID != "" {
		if h.byUser[userID] == nil {
			h.byUser[userID] = make(map[*Client]struct{})
		}
		h.byUser[userID][c] = struct{}{}
	}
	h.mu.Unlock()
	return c
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	if c.userID != "" {
		if set := h.byUser[c.userID]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(h.byUser, c.userID)
			}
		}
	}
	h.mu.Unlock()
}

// Publish 向所有在线连接广播；慢连接丢消息，不阻塞调用方
func (h *Hub) Publish(event string, payload interface{}) {
	msg := Message{Event: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(msg)
	}
}

// PublishTo 仅推送给鉴权为该用户的连接（个人通知用）
func (h *Hub) PublishTo(userID, event string, payload interface{}) {
	msg := Message{Event: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		c.enqueue(msg)
	}
}

// ClientCount 当前在线连接数（采样值）
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) enqueue(msg Message) {
	select {
	case c.send <- msg:
	default:
		logger.Warn("broadcast buffer full, drop event",
			zap.String("event", msg.Event), zap.String("user", c.userID))
	}
}

// WritePump 顺序写出队列里的事件；同一帖子的先后状态不会乱序
func (c *Client) WritePump() {
	defer c.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// ReadLoop 丢弃入站消息，仅用于感知断连
func (c *Client) ReadLoop() {
	defer c.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.hub.detach(c)
		close(c.send)
		_ = c.conn.Close()
	})
}
