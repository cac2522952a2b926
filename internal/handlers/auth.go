package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-health-server/internal/middleware"
	"barangay-health-server/internal/models"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/store"
	"barangay-health-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Pipeline  *pipeline.Pipeline[*models.User]
	Users     store.Users
	JWTSecret string
	TokenTTL  time.Duration
	Timeout   time.Duration
	Log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(p *pipeline.Pipeline[*models.User], users store.Users, secret string, tokenTTL, timeout time.Duration, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Pipeline: p, Users: users, JWTSecret: secret, TokenTTL: tokenTTL, Timeout: timeout, Log: log}
}

// Register handles user registration. The submitted role is ignored: the
// first account becomes admin and every later one staff.
func (h *AuthHandler) Register(c *gin.Context) {
	f, err := readFields(c)
	if err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, sanitize(h.Pipeline.Create(ctx, f.Without("role"))), http.StatusCreated)
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string               `json:"accessToken"`
	User        models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	user, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Unauthorized(c, "Invalid username or password")
		} else {
			h.Log.Error("login lookup failed", zap.Error(err))
			utils.Unavailable(c, "Failed to log in. Please try again later.")
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid username or password")
		return
	}

	accessToken, err := utils.GenerateToken(user, h.JWTSecret, h.TokenTTL)
	if err != nil {
		h.Log.Error("token signing failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to generate token")
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: accessToken,
		User:        user.Sanitize(),
	})
}

// GetProfile handles fetching the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, sanitize(h.Pipeline.Get(ctx, userID)), http.StatusOK)
}
