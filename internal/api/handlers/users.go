package handlers

import (
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api/middleware"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With(zap.String("handler", "user")),
	}
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (uh *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "all required fields must be provided"})
		return
	}

	user, err := uh.users.Register(c.Request.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (uh *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Image     *string `json:"image"`
	Password  *string `json:"password"`
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := uh.users.UpdateProfile(c.Request.Context(), user.ID, services.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Image:     req.Image,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(updated))
}

func (uh *UserHandler) Activate(c *gin.Context) {
	user, err := uh.users.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (uh *UserHandler) Deactivate(c *gin.Context) {
	user, err := uh.users.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

type setUserTypeRequest struct {
	UserTypeID uint `json:"user_type_id" binding:"required"`
}

func (uh *UserHandler) SetUserType(c *gin.Context) {
	var req setUserTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "user_type_id is required"})
		return
	}

	user, err := uh.users.SetUserType(c.Request.Context(), c.Param("id"), req.UserTypeID)
	if err != nil {
		respondError(c, err)
		return
	}

	uh.logger.Info("User type reassigned",
		zap.String("user_id", user.ID),
		zap.String("user_type", user.UserType.Name))
	c.JSON(http.StatusOK, newUserResponse(user))
}
