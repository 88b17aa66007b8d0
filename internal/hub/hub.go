// Package hub 维护实时看板的 WebSocket 客户端集合，
// 并把订阅到的加入事件分发给对应抽奖的所有者连接。
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/repository"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub 把加入事件从订阅通道分发到按抽奖分组的客户端。
type Hub struct {
	register   chan *Client
	unregister chan *Client

	// map[giveawayID]map[*Client]bool
	feeds   map[uint]map[*Client]bool
	feedsMu sync.RWMutex

	subscriber repository.FeedSubscriber
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(subscriber repository.FeedSubscriber) *Hub {
	if subscriber == nil {
		panic("FeedSubscriber cannot be nil for Hub")
	}
	return &Hub{
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		feeds:      make(map[uint]map[*Client]bool),
		subscriber: subscriber,
	}
}

// Run 启动 Hub 的主事件循环。应该在单独的 goroutine 中运行。
// 订阅通道关闭 (Stop 被调用) 时循环结束。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	events, err := h.subscriber.SubscribeJoins(context.Background())
	if err != nil {
		log.WithError(err).Error("Hub: failed to subscribe to join events, live feed disabled")
		events = nil
	}

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event, ok := <-events:
			if !ok {
				log.Info("Hub: event subscription closed, shutting down")
				h.closeAllClients()
				return
			}
			h.broadcastJoin(event.GiveawayID, event)
		}
	}
}

// Register 把客户端排队等待注册
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 把客户端排队等待注销
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-time.After(time.Second):
		logrus.WithField("giveaway_id", client.GiveawayID()).Warn("Hub: timeout queueing unregister")
	}
}

// Stop 结束订阅，Run 随之退出并关闭全部客户端
func (h *Hub) Stop() {
	if err := h.subscriber.Close(); err != nil {
		logrus.WithError(err).Warn("Hub: failed to close feed subscriber")
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		return
	}
	giveawayID := client.GiveawayID()

	h.feedsMu.Lock()
	clients, ok := h.feeds[giveawayID]
	if !ok {
		clients = make(map[*Client]bool)
		h.feeds[giveawayID] = clients
	}
	clients[client] = true
	h.feedsMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"giveaway_id": giveawayID,
		"user_id":     client.UserID(),
	}).Info("Hub: client registered for live feed")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	giveawayID := client.GiveawayID()

	h.feedsMu.Lock()
	if clients, ok := h.feeds[giveawayID]; ok {
		if _, registered := clients[client]; registered {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.feeds, giveawayID)
			}
		}
	}
	h.feedsMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"giveaway_id": giveawayID,
		"user_id":     client.UserID(),
	}).Info("Hub: client unregistered")
}

// broadcastJoin 把事件发给该抽奖的所有已连接客户端
func (h *Hub) broadcastJoin(giveawayID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Hub: failed to marshal join event")
		return
	}

	h.feedsMu.RLock()
	defer h.feedsMu.RUnlock()
	for client := range h.feeds[giveawayID] {
		select {
		case client.send <- payload:
		default:
			// 发送缓冲已满的连接视为死连接，留给 ReadPump 注销
			logrus.WithField("giveaway_id", giveawayID).Warn("Hub: client send buffer full, dropping event")
		}
	}
}

func (h *Hub) closeAllClients() {
	h.feedsMu.Lock()
	defer h.feedsMu.Unlock()
	for giveawayID, clients := range h.feeds {
		for client := range clients {
			close(client.send)
			client.CloseConn()
		}
		delete(h.feeds, giveawayID)
	}
}
