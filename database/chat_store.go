package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proudshop/models"
	"proudshop/store"
)

type ChatStore struct {
	db *sql.DB
}

func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) CreateSession(ctx context.Context, sess *models.ChatSession) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_sessions (session_id, customer_email, customer_name) VALUES (?, ?, ?)",
		sess.SessionID, sess.CustomerEmail, sess.CustomerName)
	if err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("chat session id: %w", err)
	}
	sess.ID = int(id)
	now := time.Now()
	sess.CreatedAt = now
	sess.LastActivityAt = now
	sess.Messages = []models.ChatMessage{}
	return nil
}

func (s *ChatStore) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var sess models.ChatSession
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, customer_email, customer_name, created_at, last_activity_at
		FROM chat_sessions WHERE session_id = ?`, sessionID).
		Scan(&sess.ID, &sess.SessionID, &sess.CustomerEmail, &sess.CustomerName,
			&sess.CreatedAt, &sess.LastActivityAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	if err := s.loadMessages(ctx, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *ChatStore) loadMessages(ctx context.Context, sess *models.ChatSession) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY id ASC`, sess.ID)
	if err != nil {
		return fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	sess.Messages = []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return fmt.Errorf("scan chat message: %w", err)
		}
		sess.Messages = append(sess.Messages, m)
	}
	return rows.Err()
}

func (s *ChatStore) ListSessions(ctx context.Context, limit int) ([]models.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, customer_email, customer_name, created_at, last_activity_at
		FROM chat_sessions ORDER BY last_activity_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var sess models.ChatSession
		if err := rows.Scan(&sess.ID, &sess.SessionID, &sess.CustomerEmail,
			&sess.CustomerName, &sess.CreatedAt, &sess.LastActivityAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := s.loadMessages(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (s *ChatStore) AddMessage(ctx context.Context, m *models.ChatMessage) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_messages (session_id, role, content) VALUES (?, ?, ?)",
		m.SessionID, m.Role, m.Content)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("chat message id: %w", err)
	}
	m.ID = int(id)
	m.CreatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		"UPDATE chat_sessions SET last_activity_at = NOW() WHERE id = ?", m.SessionID)
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	return nil
}

type CampaignStore struct {
	db *sql.DB
}

func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

func (s *CampaignStore) List(ctx context.Context, limit int) ([]models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, objective, budget_eur, audience, created_at
		FROM campaigns ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Objective, &c.BudgetEur,
			&c.Audience, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (s *CampaignStore) Create(ctx context.Context, c *models.Campaign) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO campaigns (name, objective, budget_eur, audience) VALUES (?, ?, ?, ?)",
		c.Name, c.Objective, c.BudgetEur, c.Audience)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("campaign id: %w", err)
	}
	c.ID = int(id)
	c.CreatedAt = time.Now()
	return nil
}

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Counts(ctx context.Context) (*store.Stats, error) {
	var st store.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM orders)`).
		Scan(&st.Products, &st.Categories, &st.Orders)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	return &st, nil
}

func (s *StatsStore) RecentOrderNumbers(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT order_number FROM orders ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	numbers := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan order number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
