package handlers

import (
	"net/http"
	"strconv"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserTypeHandler struct {
	userTypes *services.UserTypeService
	logger    *zap.Logger
}

func NewUserTypeHandler(userTypes *services.UserTypeService, logger *zap.Logger) *UserTypeHandler {
	return &UserTypeHandler{
		userTypes: userTypes,
		logger:    logger.With(zap.String("handler", "usertype")),
	}
}

func (uth *UserTypeHandler) List(c *gin.Context) {
	userTypes, err := uth.userTypes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]userTypeResponse, 0, len(userTypes))
	for _, ut := range userTypes {
		out = append(out, userTypeResponse{ID: ut.ID, Name: ut.Name})
	}
	c.JSON(http.StatusOK, out)
}

type userTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (uth *UserTypeHandler) Create(c *gin.Context) {
	var req userTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "name is required"})
		return
	}

	userType, err := uth.userTypes.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userTypeResponse{ID: userType.ID, Name: userType.Name})
}

func (uth *UserTypeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req userTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "name is required"})
		return
	}

	userType, err := uth.userTypes.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userTypeResponse{ID: userType.ID, Name: userType.Name})
}

func (uth *UserTypeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	userType, err := uth.userTypes.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userTypeResponse{ID: userType.ID, Name: userType.Name})
}

func (uth *UserTypeHandler) UsersOf(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	users, err := uth.userTypes.UsersOf(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
