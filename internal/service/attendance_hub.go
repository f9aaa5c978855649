package service

import (
	"campus_club_backend/pkg/logger"
	"campus_club_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	attendanceChannel = "attendance_channel"
)

const (
	EventAttendanceCreated = "ATTENDANCE_CREATED"
	EventAttendanceDeleted = "ATTENDANCE_DELETED"
	EventSessionClosed     = "SESSION_CLOSED"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// AttendancePublisher 考勤变更通知，服务层只依赖这个接口
type AttendancePublisher interface {
	Publish(sessionID uint, msg WSMessage)
}

type Subscriber struct {
	Hub       *AttendanceHub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID uint
	UserID    uint
}

// readPump 只读推送通道：客户端发来的消息一律丢弃，只处理 pong 和断开
func (c *Subscriber) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.ctx.Done():
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
	}
}

func (c *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	sessions map[uint]map[*Subscriber]struct{}
	mu       sync.RWMutex
}

// AttendanceHub 按考勤场次分组的 WebSocket 推送。
// 配置了 Redis 时经由 pub/sub 转发，多实例部署下每个实例都能推送给本地订阅者。
type AttendanceHub struct {
	shards     [shardCount]*shard
	register   chan *Subscriber
	unregister chan *Subscriber
	Redis      *redis.Client
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewAttendanceHub(rdb *redis.Client) *AttendanceHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &AttendanceHub{
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		Redis:      rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			sessions: make(map[uint]map[*Subscriber]struct{}),
		}
	}
	return h
}

func (h *AttendanceHub) getShard(sessionID uint) *shard {
	return h.shards[sessionID%shardCount]
}

type PubSubMessage struct {
	SessionID uint            `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
}

func (h *AttendanceHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, attendanceChannel)
		go func() {
			defer pubsub.Close()
			for msg := range pubsub.Channel() {
				var psMsg PubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.pushLocal(psMsg.SessionID, psMsg.Payload)
			}
		}()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case sub := <-h.register:
			s := h.getShard(sub.SessionID)
			s.mu.Lock()
			if s.sessions[sub.SessionID] == nil {
				s.sessions[sub.SessionID] = make(map[*Subscriber]struct{})
			}
			s.sessions[sub.SessionID][sub] = struct{}{}
			s.mu.Unlock()
			monitoring.AttendanceSubscribers.Inc()

		case sub := <-h.unregister:
			s := h.getShard(sub.SessionID)
			s.mu.Lock()
			if subs, ok := s.sessions[sub.SessionID]; ok {
				if _, ok := subs[sub]; ok {
					delete(subs, sub)
					close(sub.Send)
					monitoring.AttendanceSubscribers.Dec()
				}
				if len(subs) == 0 {
					delete(s.sessions, sub.SessionID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Stop 关闭所有连接
func (h *AttendanceHub) Stop() {
	h.cancel()

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for sessionID, subs := range s.sessions {
			for sub := range subs {
				close(sub.Send)
				closed++
			}
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	}

	monitoring.AttendanceSubscribers.Set(0)
	logger.Log.Info("AttendanceHub stopped", zap.Int("closedConnections", closed))
}

func (h *AttendanceHub) Publish(sessionID uint, msg WSMessage) {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Marshal attendance message failed", zap.Error(err))
		return
	}

	if h.Redis == nil {
		h.pushLocal(sessionID, msgBytes)
		return
	}

	payload, _ := json.Marshal(PubSubMessage{SessionID: sessionID, Payload: msgBytes})
	if err := h.Redis.Publish(h.ctx, attendanceChannel, payload).Err(); err != nil {
		logger.Log.Warn("Publish attendance message failed, delivering locally", zap.Error(err))
		h.pushLocal(sessionID, msgBytes)
	}
}

// Subscribers 本实例上某场次的订阅数
func (h *AttendanceHub) Subscribers(sessionID uint) int {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

func (h *AttendanceHub) pushLocal(sessionID uint, payload []byte) {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.sessions[sessionID] {
		select {
		case sub.Send <- payload:
		default:
		}
	}
}

func ServeAttendanceWs(hub *AttendanceHub, w http.ResponseWriter, r *http.Request, sessionID, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	sub := &Subscriber{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		SessionID: sessionID,
		UserID:    userID,
	}
	select {
	case hub.register <- sub:
	case <-hub.ctx.Done():
		conn.Close()
		return
	}

	go sub.writePump()
	go sub.readPump()
}
