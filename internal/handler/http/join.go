package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/service"
)

// JoinHandler 封装了访客加入流程的 HTTP 处理逻辑。
// 两个操作都是匿名的：看表单、提交加入。
type JoinHandler struct {
	joinService     *service.JoinService
	giveawayService *service.GiveawayService
}

// NewJoinHandler 创建 JoinHandler 实例
func NewJoinHandler(joinService *service.JoinService, giveawayService *service.GiveawayService) *JoinHandler {
	if joinService == nil {
		panic("JoinService cannot be nil for JoinHandler")
	}
	if giveawayService == nil {
		panic("GiveawayService cannot be nil for JoinHandler")
	}
	return &JoinHandler{
		joinService:     joinService,
		giveawayService: giveawayService,
	}
}

// ViewForm 返回加入表单需要的数据。未知推荐码返回 404。
func (h *JoinHandler) ViewForm(c *gin.Context) {
	code := c.Param("code")

	giveaway, err := h.giveawayService.FindByCode(c.Request.Context(), code)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"room_name": giveaway.RoomName,
		"code":      giveaway.Code,
	})
}

// SubmitJoinRequest 定义加入提交的结构体，表单和 JSON 都接受
type SubmitJoinRequest struct {
	ReferrerName string `json:"referrer_name" form:"referrer_name"`
}

// Submit 处理加入提交。
// 成功后无条件 302 跳转到抽奖的频道链接，没有确认页。
// 推荐人名为空时返回 400，让表单重新提示，不产生任何状态变化。
func (h *JoinHandler) Submit(c *gin.Context) {
	code := c.Param("code")
	logCtx := logrus.WithField("code", code)

	var req SubmitJoinRequest
	if err := c.ShouldBind(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.Submit: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: referrer_name is required")
		return
	}

	result, err := h.joinService.Join(c.Request.Context(), code, req.ReferrerName)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logCtx.WithFields(logrus.Fields{
		"giveaway_id":    result.Giveaway.ID,
		"referral_count": result.ReferralCount,
	}).Info("Handler.Submit: Join recorded, redirecting to channel")
	c.Redirect(http.StatusFound, result.ChannelLink)
}
