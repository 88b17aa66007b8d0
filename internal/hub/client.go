package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client 代表一个连接到实时看板的 WebSocket 客户端。
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	giveawayID uint
	userID     uint
	send       chan []byte
}

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, giveawayID, userID uint) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		giveawayID: giveawayID,
		userID:     userID,
		send:       make(chan []byte, 256),
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump 消费入站消息以处理关闭和 Pong。
// 看板推送是单向的，入站文本消息直接忽略。
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "giveaway_id": c.giveawayID}).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"user_id": c.userID, "giveaway_id": c.giveawayID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			return
		}
	}
}

// WritePump 把 send 通道里的事件写入 WebSocket 连接，并定期发送 Ping。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "giveaway_id": c.giveawayID}).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了 send 通道
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "giveaway_id": c.giveawayID}).WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "giveaway_id": c.giveawayID}).WithError(err).Warn("Failed to send ping message")
				return
			}
		}
	}
}

func (c *Client) GiveawayID() uint { return c.giveawayID }
func (c *Client) UserID() uint     { return c.userID }
func (c *Client) CloseConn()       { c.conn.Close() }
