package services

import (
	"context"
	"errors"

	"proudshop/auth"
	"proudshop/models"
	"proudshop/store"
)

// AdminService manages the admin accounts themselves. Role enforcement
// (SUPER_ADMIN only) happens in the middleware, not here.
type AdminService struct {
	admins store.AdminStore
}

func NewAdminService(admins store.AdminStore) *AdminService {
	return &AdminService{admins: admins}
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	return s.admins.List(ctx)
}

func (s *AdminService) Get(ctx context.Context, id int) (*models.Admin, error) {
	return s.admins.Get(ctx, id)
}

func (s *AdminService) Create(ctx context.Context, in models.AdminInput) (*models.Admin, error) {
	_, err := s.admins.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrAdminEmailExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	admin := &models.Admin{Email: in.Email, Name: in.Name, PasswordHash: hash, Role: role}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Update(ctx context.Context, id int, in models.AdminUpdateInput) (*models.Admin, error) {
	admin, err := s.admins.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != admin.Email {
		if _, err := s.admins.GetByEmail(ctx, in.Email); err == nil {
			return nil, ErrEmailInUse
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		admin.Email = in.Email
	}
	if in.Name != nil {
		admin.Name = in.Name
	}
	if in.Role != "" {
		admin.Role = in.Role
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Delete(ctx context.Context, id int) error {
	if _, err := s.admins.Get(ctx, id); err != nil {
		return err
	}
	return s.admins.Delete(ctx, id)
}
