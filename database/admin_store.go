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

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = "id, email, name, password_hash, role, permissions, created_at"

func scanAdmin(s interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := s.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.Permissions, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminStore) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+adminColumns+" FROM admins ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

func (s *AdminStore) Get(ctx context.Context, id int) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admins WHERE id = ?", id)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admins WHERE email = ?", email)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return a, nil
}

func (s *AdminStore) Create(ctx context.Context, a *models.Admin) error {
	if a.Role == "" {
		a.Role = models.RoleAdmin
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (email, name, password_hash, role, permissions) VALUES (?, ?, ?, ?, ?)",
		a.Email, a.Name, a.PasswordHash, a.Role, a.Permissions)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("admin id: %w", err)
	}
	a.ID = int(id)
	a.CreatedAt = time.Now()
	return nil
}

func (s *AdminStore) Update(ctx context.Context, a *models.Admin) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE admins SET email = ?, name = ?, password_hash = ?, role = ?, permissions = ? WHERE id = ?",
		a.Email, a.Name, a.PasswordHash, a.Role, a.Permissions, a.ID)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *AdminStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM admins WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type SettingStore struct {
	db *sql.DB
}

func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

func (s *SettingStore) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, `key`, value, created_at FROM admin_settings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

func (s *SettingStore) Get(ctx context.Context, key string) (*models.Setting, error) {
	var st models.Setting
	err := s.db.QueryRowContext(ctx,
		"SELECT id, `key`, value, created_at FROM admin_settings WHERE `key` = ?", key).
		Scan(&st.ID, &st.Key, &st.Value, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &st, nil
}

func (s *SettingStore) Upsert(ctx context.Context, key string, value *string) (*models.Setting, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_settings (`+"`key`"+`, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`, key, value)
	if err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return s.Get(ctx, key)
}

type RefreshTokenStore struct {
	db *sql.DB
}

func NewRefreshTokenStore(db *sql.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (s *RefreshTokenStore) GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := s.db.QueryRowContext(ctx,
		"SELECT id, admin_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = ?",
		hash).Scan(&t.ID, &t.AdminID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &t, nil
}

func (s *RefreshTokenStore) Create(ctx context.Context, t *models.RefreshToken) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (admin_id, token_hash, expires_at) VALUES (?, ?, ?)",
		t.AdminID, t.TokenHash, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("refresh token id: %w", err)
	}
	t.ID = int(id)
	return nil
}

func (s *RefreshTokenStore) Rotate(ctx context.Context, id int, newHash string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET token_hash = ?, expires_at = ? WHERE id = ?",
		newHash, expiresAt, id)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *RefreshTokenStore) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token_hash = ?", hash)
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
