package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proudshop/models"
	"proudshop/services"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

func (cc *ChatController) CreateSession(c *gin.Context) {
	var in models.ChatSessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	sess, err := cc.chat.CreateSession(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (cc *ChatController) ListSessions(c *gin.Context) {
	sessions, err := cc.chat.ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (cc *ChatController) GetSession(c *gin.Context) {
	sess, err := cc.chat.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (cc *ChatController) PostMessage(c *gin.Context) {
	var in models.ChatMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	msg, err := cc.chat.PostMessage(c.Request.Context(), c.Param("sessionId"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

type MarketingController struct {
	marketing *services.MarketingService
}

func NewMarketingController(marketing *services.MarketingService) *MarketingController {
	return &MarketingController{marketing: marketing}
}

func (mc *MarketingController) ListCampaigns(c *gin.Context) {
	campaigns, err := mc.marketing.ListCampaigns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (mc *MarketingController) CreateCampaign(c *gin.Context) {
	var in models.CampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	campaign, err := mc.marketing.CreateCampaign(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}
