package handlers

import (
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger.With(zap.String("handler", "auth")),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "email and password are required"})
		return
	}

	user, err := ah.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ah.logger.Warn("Login rejected", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	token, err := ah.tokens.IssueToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  newUserResponse(user),
		"token": token,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token for a known account. The response is
// identical whether or not the account exists, so the endpoint cannot be used
// to enumerate registered emails.
func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "email is required"})
		return
	}

	if _, err := ah.users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		token, err := ah.tokens.IssueResetToken(req.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		// TODO: deliver by mail once the notification service lands; logged
		// until then.
		ah.logger.Info("Reset token issued",
			zap.String("email", req.Email),
			zap.String("reset_token", token))
	}

	c.JSON(http.StatusOK, gin.H{"message": "reset token issued"})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "token and a password of at least 8 characters are required"})
		return
	}

	email, err := ah.tokens.DecodeResetToken(req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ah.users.ResetPassword(c.Request.Context(), email, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
