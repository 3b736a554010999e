package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChatSession struct {
	ID             int           `json:"id"`
	SessionID      string        `json:"session_id"`
	CustomerEmail  *string       `json:"customer_email"`
	CustomerName   *string       `json:"customer_name"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	Messages       []ChatMessage `json:"messages"`
}

type ChatMessage struct {
	ID        int       `json:"id"`
	SessionID int       `json:"-"`
	Role      string    `json:"role"` // user | admin | system
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSessionInput struct {
	CustomerEmail *string `json:"customer_email"`
	CustomerName  *string `json:"customer_name"`
}

type ChatMessageInput struct {
	Content string `json:"content" binding:"required"`
	Role    string `json:"role" binding:"omitempty,oneof=user admin system"`
}

// Campaign is a persisted Facebook marketing campaign record.
type Campaign struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Objective *string             `json:"objective"`
	BudgetEur decimal.NullDecimal `json:"budget_eur"`
	Audience  *string             `json:"audience"`
	CreatedAt time.Time           `json:"created_at"`
}

type CampaignInput struct {
	Name      string              `json:"name" binding:"required"`
	Objective *string             `json:"objective"`
	BudgetEur decimal.NullDecimal `json:"budget_eur"`
	Audience  *string             `json:"audience"`
}
