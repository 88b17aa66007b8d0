package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/middleware"
	"giveaway-rooms/internal/service"
)

// GiveawayHandler 封装了抽奖房间管理相关的 HTTP 处理逻辑
type GiveawayHandler struct {
	giveawayService *service.GiveawayService
}

// NewGiveawayHandler 创建 GiveawayHandler 实例
func NewGiveawayHandler(giveawayService *service.GiveawayService) *GiveawayHandler {
	if giveawayService == nil {
		panic("GiveawayService cannot be nil for GiveawayHandler")
	}
	return &GiveawayHandler{giveawayService: giveawayService}
}

// GiveawaySummary 是公开列表里的一项，不包含推荐明细
type GiveawaySummary struct {
	RoomName      string `json:"room_name"`
	Code          string `json:"code"`
	ReferralCount uint64 `json:"referral_count"`
}

// List 处理公开的抽奖列表请求，无需认证
func (h *GiveawayHandler) List(c *gin.Context) {
	giveaways, err := h.giveawayService.ListAll(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	summaries := make([]GiveawaySummary, 0, len(giveaways))
	for _, g := range giveaways {
		summaries = append(summaries, GiveawaySummary{
			RoomName:      g.RoomName,
			Code:          g.Code,
			ReferralCount: g.ReferralCount,
		})
	}
	SuccessResponse(c, http.StatusOK, gin.H{"giveaways": summaries})
}

// CreateGiveawayRequest 定义创建抽奖请求的结构体
type CreateGiveawayRequest struct {
	RoomName    string `json:"room_name" binding:"required,max=191"`
	ChannelLink string `json:"channel_link" binding:"required,url"`
}

// Create 处理创建抽奖房间的请求。
// 所有者永远是已认证的操作者，客户端无法指定别人。
func (h *GiveawayHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		logrus.Warn("Handler.Create: Identity not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Create: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: room_name and a valid channel_link are required")
		return
	}

	giveaway, err := h.giveawayService.Create(c.Request.Context(), actor, req.RoomName, req.ChannelLink)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"giveaway_id": giveaway.ID,
		"code":        giveaway.Code,
	}).Info("Handler.Create: Giveaway created successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":     "Giveaway created successfully",
		"giveaway_id": giveaway.ID,
		"code":        giveaway.Code,
	})
}

// Dashboard 返回操作者自己的全部抽奖及推荐明细
func (h *GiveawayHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		logrus.Warn("Handler.Dashboard: Identity not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.giveawayService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"giveaways": entries})
}

// giveawayIDParam 解析路径中的抽奖 ID
func giveawayIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Referrals 返回单个抽奖的推荐明细，仅限所有者
func (h *GiveawayHandler) Referrals(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		logrus.Warn("Handler.Referrals: Identity not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := giveawayIDParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid giveaway ID")
		return
	}

	entry, err := h.giveawayService.Referrals(c.Request.Context(), actor, id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, entry)
}
