package mapper

import (
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
)

// User is the public account representation. The password hash never leaves the service.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Email           openapi_types.Email `json:"email" binding:"required"`
	Password        string              `json:"password" binding:"required"`
	ConfirmPassword string              `json:"confirmPassword"`
	FullName        string              `json:"fullName" binding:"required"`
	Phone           string              `json:"phone"`
	Address         string              `json:"address"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the signed-in user.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type SendEmailRequest struct {
	Email openapi_types.Email `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ProfileRequest is the body of PUT /me; absent fields are kept.
type ProfileRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Avatar   *string `json:"avatar"`
}

// AccountRequest is the admin body of PATCH /user/:id.
type AccountRequest struct {
	Status *string `json:"status"`
	Role   *string `json:"role"`
}

func FromDomain(user *domain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Address:   user.Address,
		Avatar:    user.Avatar,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func FromDomainList(users []*domain.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, FromDomain(u))
	}
	return out
}

func FromSession(session *ports.Session) LoginResponse {
	if session == nil {
		return LoginResponse{}
	}
	return LoginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt, User: FromDomain(session.User)}
}

func ToRegisterInput(req RegisterRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:           string(req.Email),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        strings.TrimSpace(req.FullName),
		Phone:           strings.TrimSpace(req.Phone),
		Address:         strings.TrimSpace(req.Address),
	}
}

func ToProfileInput(id string, req ProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{ID: id, FullName: req.FullName, Phone: req.Phone, Address: req.Address, Avatar: req.Avatar}
}

func ToAccountInput(id string, req AccountRequest) ports.UpdateAccountInput {
	return ports.UpdateAccountInput{ID: id, Status: req.Status, Role: req.Role}
}

func ToResetInput(req ResetPasswordRequest) ports.ResetPasswordInput {
	return ports.ResetPasswordInput{Token: req.Token, Password: req.Password, ConfirmPassword: req.ConfirmPassword}
}
