package services

import "errors"

// Caller-fixable validation failures. Controllers map them to HTTP 400;
// store.ErrNotFound maps to 404.
var (
	ErrNoItems        = errors.New("No items")
	ErrInvalidProduct = errors.New("Invalid product")

	ErrCategoryExists   = errors.New("Category already exists")
	ErrEmailExists      = errors.New("Email exists")
	ErrEmailInUse       = errors.New("Email in use")
	ErrAdminEmailExists = errors.New("Email already exists")

	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")

	// Profile validation, surfaced verbatim to the Albanian admin UI.
	ErrProfileEmailTaken = errors.New("Email në përdorim")
	ErrWrongPassword     = errors.New("Password aktual i pasaktë")
	ErrPasswordTooShort  = errors.New("Password duhet të ketë min 6 karaktere")
	ErrPasswordSame      = errors.New("Password i ri nuk mund të jetë i njëjtë")
)
