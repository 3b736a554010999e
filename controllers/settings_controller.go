package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proudshop/ai"
	"proudshop/mailer"
	"proudshop/models"
	"proudshop/store"
)

type SettingsController struct {
	settings store.SettingStore
}

func NewSettingsController(settings store.SettingStore) *SettingsController {
	return &SettingsController{settings: settings}
}

func (sc *SettingsController) List(c *gin.Context) {
	settings, err := sc.settings.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (sc *SettingsController) Upsert(c *gin.Context) {
	var in models.SettingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	setting, err := sc.settings.Upsert(c.Request.Context(), in.Key, in.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// GetOpenAIKey reports whether a key is stored without revealing it.
func (sc *SettingsController) GetOpenAIKey(c *gin.Context) {
	var last4 *string
	exists := false
	if s, err := sc.settings.Get(c.Request.Context(), ai.KeySettingName); err == nil && s.Value != nil && *s.Value != "" {
		exists = true
		if len(*s.Value) >= 4 {
			tail := (*s.Value)[len(*s.Value)-4:]
			last4 = &tail
		}
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists, "masked": exists, "last4": last4})
}

func (sc *SettingsController) SetOpenAIKey(c *gin.Context) {
	var in models.SettingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if in.Key != ai.KeySettingName {
		badRequest(c, "Key name must be OPENAI_API_KEY")
		return
	}

	if _, err := sc.settings.Upsert(c.Request.Context(), in.Key, in.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type EmailController struct {
	mailer *mailer.Mailer
}

func NewEmailController(m *mailer.Mailer) *EmailController {
	return &EmailController{mailer: m}
}

// Check is the SMTP configuration diagnostic; it never sends anything.
func (ec *EmailController) Check(c *gin.Context) {
	cfg := ec.mailer.Config(c.Request.Context())
	missing := cfg.Missing()

	var userMasked, fromMasked *string
	if cfg.User != "" {
		m := mailer.MaskEmail(cfg.User)
		userMasked = &m
	}
	from := cfg.FromEmail
	if from == "" {
		from = cfg.User
	}
	if from != "" {
		m := mailer.MaskEmail(from)
		fromMasked = &m
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      len(missing) == 0,
		"missing": missing,
		"config": gin.H{
			"host":              cfg.Host,
			"port":              cfg.Port,
			"secure":            cfg.Secure,
			"user_masked":       userMasked,
			"from_email_masked": fromMasked,
			"has_password":      cfg.Password != "",
		},
	})
}

func (ec *EmailController) Send(c *gin.Context) {
	var req struct {
		To        []string `json:"to" binding:"required,min=1,dive,email"`
		Subject   string   `json:"subject" binding:"required"`
		HTML      string   `json:"html" binding:"required"`
		FromEmail string   `json:"from_email" binding:"omitempty,email"`
		FromName  string   `json:"from_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cfg := ec.mailer.Config(c.Request.Context())
	if len(cfg.Missing()) > 0 {
		badRequest(c, "SMTP settings are not configured")
		return
	}

	if err := ec.mailer.SendFrom(c.Request.Context(), req.To, req.Subject, req.HTML, req.FromEmail, req.FromName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sent": len(req.To)})
}
