package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"proudshop/models"
	"proudshop/store"
)

// ChatService runs the storefront support chat. Sessions are addressed by an
// opaque uuid so visitors need no account.
type ChatService struct {
	chats store.ChatStore
}

func NewChatService(chats store.ChatStore) *ChatService {
	return &ChatService{chats: chats}
}

func (s *ChatService) CreateSession(ctx context.Context, in models.ChatSessionInput) (*models.ChatSession, error) {
	sess := models.ChatSession{
		SessionID:     uuid.NewString(),
		CustomerEmail: in.CustomerEmail,
		CustomerName:  in.CustomerName,
	}
	if err := s.chats.CreateSession(ctx, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *ChatService) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return s.chats.GetSession(ctx, sessionID)
}

func (s *ChatService) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	return s.chats.ListSessions(ctx, 100)
}

// PostMessage appends a message to the session and bumps its activity stamp.
func (s *ChatService) PostMessage(ctx context.Context, sessionID string, in models.ChatMessageInput) (*models.ChatMessage, error) {
	sess, err := s.chats.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = "user"
	}
	msg := models.ChatMessage{SessionID: sess.ID, Role: role, Content: in.Content}
	if err := s.chats.AddMessage(ctx, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ErrFacebookNotConfigured is returned when the pixel or access token
// settings are absent; the message matches the Albanian admin UI.
var ErrFacebookNotConfigured = errors.New("Facebook pixel/access token i mungon (vendosni në Settings)")

// MarketingService persists Facebook campaign drafts. No calls leave for the
// Facebook API yet; the pixel and token settings are required anyway so the
// drafts stay actionable.
type MarketingService struct {
	campaigns store.CampaignStore
	settings  store.SettingStore
}

func NewMarketingService(campaigns store.CampaignStore, settings store.SettingStore) *MarketingService {
	return &MarketingService{campaigns: campaigns, settings: settings}
}

func (s *MarketingService) hasSetting(ctx context.Context, key string) bool {
	setting, err := s.settings.Get(ctx, key)
	return err == nil && setting.Value != nil && *setting.Value != ""
}

func (s *MarketingService) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return s.campaigns.List(ctx, 100)
}

func (s *MarketingService) CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error) {
	if !s.hasSetting(ctx, "facebook_pixel_id") || !s.hasSetting(ctx, "facebook_access_token") {
		return nil, ErrFacebookNotConfigured
	}

	campaign := models.Campaign{
		Name:      in.Name,
		Objective: in.Objective,
		BudgetEur: in.BudgetEur,
		Audience:  in.Audience,
	}
	if err := s.campaigns.Create(ctx, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}
