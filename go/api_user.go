package shopserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/http/mapper"
	userdomain "github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	userports "github.com/Apurer/flower-shop-api/internal/domains/users/ports"
)

// UserAPI implements registration, sign-in, profiles and account administration.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /register
// Creates a customer account
func (api *UserAPI) Register(c *gin.Context) {
	var payload usermapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usermapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Account created", usermapper.FromDomain(user))
}

// Post /login
// Logs user into the system
func (api *UserAPI) Login(c *gin.Context) {
	var payload usermapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), string(payload.Email), payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Logged in", usermapper.FromSession(session))
}

// Get /me
// Returns the caller's profile
func (api *UserAPI) GetMe(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, err := api.service.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Profile fetched", usermapper.FromDomain(user))
}

// Put /me
// Updates the caller's profile
func (api *UserAPI) UpdateMe(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload usermapper.ProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.UpdateProfile(c.Request.Context(), usermapper.ToProfileInput(principal.UserID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Profile updated", usermapper.FromDomain(user))
}

// Get /users
// Lists accounts filtered by role, status and search text
func (api *UserAPI) ListUsers(c *gin.Context) {
	query := userports.ListQuery{Page: pageQuery(c), Q: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role, err := userdomain.ParseRole(raw)
		if err != nil {
			respondBadRequest(c, fmt.Errorf("query role: %w", err))
			return
		}
		query.Role = &role
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := userdomain.ParseStatus(raw)
		if err != nil {
			respondBadRequest(c, fmt.Errorf("query status: %w", err))
			return
		}
		query.Status = &status
	}
	page, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, "Users fetched", page, func(u *userdomain.User) usermapper.User {
		return usermapper.FromDomain(u)
	})
}

// Patch /user/:id
// Changes an account's role or status
func (api *UserAPI) UpdateAccount(c *gin.Context) {
	var payload usermapper.AccountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.UpdateAccount(c.Request.Context(), usermapper.ToAccountInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Account updated", usermapper.FromDomain(user))
}

// Post /send-email
// Mails a password reset link. The answer is the same whether or not the address is known.
func (api *UserAPI) SendResetEmail(c *gin.Context) {
	var payload usermapper.SendEmailRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.service.SendResetEmail(c.Request.Context(), string(payload.Email)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "If the address is registered, a reset link has been sent")
}

// Put /reset-password
// Sets a new password using a reset token
func (api *UserAPI) ResetPassword(c *gin.Context) {
	var payload usermapper.ResetPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.service.ResetPassword(c.Request.Context(), usermapper.ToResetInput(payload)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Password updated")
}
