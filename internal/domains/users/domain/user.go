package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role grants access to route groups. Admin includes staff which includes customer.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Status gates login.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// MaxPasswordLength is the longest password bcrypt hashes, in bytes.
	MaxPasswordLength = 72
)

var (
	ErrInvalidEmail     = errors.New("email address is invalid")
	ErrEmptyPassword    = errors.New("password is required")
	ErrWeakPassword     = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidRole      = errors.New("role is invalid")
	ErrInvalidStatus    = errors.New("account status is invalid")
	ErrMissingPassword  = errors.New("password hash is missing")
)

// User is a shop account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Address      string
	Avatar       string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds an active customer account with a hashed password.
func NewUser(id, email, password, fullName string, now time.Time) (*User, error) {
	u := &User{
		ID:        id,
		FullName:  strings.TrimSpace(fullName),
		Role:      RoleCustomer,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetEmail validates and stores the normalized address.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetPassword validates strength and stores a bcrypt hash.
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// ValidatePassword checks the length rules without hashing.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// CheckPassword compares a plain password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile applies the self-service fields.
func (u *User) UpdateProfile(fullName, phone, address, avatar string) {
	u.FullName = strings.TrimSpace(fullName)
	u.Phone = strings.TrimSpace(phone)
	u.Address = strings.TrimSpace(address)
	u.Avatar = strings.TrimSpace(avatar)
}

// Active reports whether the account may log in.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// Validate re-applies invariants before persistence.
func (u *User) Validate() error {
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrMissingPassword
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(u.Status)); err != nil {
		return err
	}
	return nil
}

// Clone returns a copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

func ParseStatus(raw string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(raw))); status {
	case StatusActive, StatusInactive:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ResetToken tracks one issued password reset link.
type ResetToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token can no longer be used.
func (t ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
