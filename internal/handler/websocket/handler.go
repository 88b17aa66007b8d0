package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	httphandler "giveaway-rooms/internal/handler/http"
	"giveaway-rooms/internal/hub"
	"giveaway-rooms/internal/middleware"
	"giveaway-rooms/internal/service"
)

// FeedHandler 负责把所有者的看板连接升级为 WebSocket 实时推送。
// 升级前先做所有权检查，非所有者拿不到实时推送。
type FeedHandler struct {
	upgrader        websocket.Upgrader
	hub             *hub.Hub
	giveawayService *service.GiveawayService
}

// NewFeedHandler 创建 FeedHandler 实例
func NewFeedHandler(h *hub.Hub, giveawayService *service.GiveawayService) *FeedHandler {
	if h == nil {
		panic("Hub cannot be nil for FeedHandler")
	}
	if giveawayService == nil {
		panic("GiveawayService cannot be nil for FeedHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to the configured dashboard origin
			return true
		},
	}

	return &FeedHandler{
		upgrader:        upgrader,
		hub:             h,
		giveawayService: giveawayService,
	}
}

// HandleConnection 处理实时看板的 WebSocket 连接请求。
// URL 格式: /ws/giveaway/{id}
func (h *FeedHandler) HandleConnection(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		logrus.Warn("WS Handler: Identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	logCtx := logrus.WithField("user_id", actor.UserID)

	giveawayID64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logCtx.WithError(err).Warnf("WS Handler: Invalid giveaway ID format: %s", c.Param("id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid giveaway ID format"})
		return
	}
	giveawayID := uint(giveawayID64)
	logCtx = logCtx.WithField("giveaway_id", giveawayID)

	// 所有权检查复用看板逻辑：非所有者得到 403，未知抽奖得到 404
	if _, err := h.giveawayService.Referrals(c.Request.Context(), actor, giveawayID); err != nil {
		logCtx.WithError(err).Warn("WS Handler: Ownership check failed")
		httphandler.HandleServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经发送了 HTTP 错误响应
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn, giveawayID, actor.UserID)
	h.hub.Register(client)
	client.Run()
}
