package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError is the single place service errors become HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, services.ErrIncorrectLogin):
		status, message = http.StatusUnauthorized, "incorrect email or password"
	case errors.Is(err, auth.ErrExpiredToken):
		status, message = http.StatusUnauthorized, "token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "invalid token"
	case errors.Is(err, services.ErrUserInactive):
		status, message = http.StatusForbidden, "account deactivated"
	case errors.Is(err, services.ErrForbidden):
		status, message = http.StatusForbidden, "you are not allowed to perform this action"
	case errors.Is(err, services.ErrUserNotFound):
		status, message = http.StatusNotFound, "user not found"
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, services.ErrAlreadyExists):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, services.ErrAlreadyHasReference):
		status, message = http.StatusConflict, "this document already has a reference code"
	case errors.Is(err, services.ErrAlreadyAttested):
		status, message = http.StatusConflict, "this document has already been attested"
	case errors.Is(err, services.ErrPaymentRequired):
		status, message = http.StatusPaymentRequired, "you have to pay for this document first"
	case errors.Is(err, services.ErrProtectedRole):
		status, message = http.StatusBadRequest, "default user types cannot be modified"
	case errors.Is(err, services.ErrRoleInUse):
		status, message = http.StatusBadRequest, "this user type has users associated to it"
	}

	c.JSON(status, gin.H{"error": true, "message": message})
}

type userTypeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type userResponse struct {
	ID        string           `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	IsActive  bool             `json:"is_active"`
	UserType  userTypeResponse `json:"user_type"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Address:   user.Address,
		IsActive:  user.IsActive,
		UserType: userTypeResponse{
			ID:   user.UserType.ID,
			Name: user.UserType.Name,
		},
	}
}

type documentResponse struct {
	ID           string                 `json:"id"`
	TemplateName string                 `json:"template_name"`
	Content      string                 `json:"document"`
	Data         map[string]interface{} `json:"document_data"`
	Status       models.DocumentStatus  `json:"status"`
	Reference    *string                `json:"document_ref"`
	QRCode       string                 `json:"qr_code,omitempty"`
	UserID       string                 `json:"user_id"`
}

func newDocumentResponse(doc *models.Document) documentResponse {
	data := make(map[string]interface{})
	if len(doc.Data) > 0 {
		_ = json.Unmarshal(doc.Data, &data)
	}
	return documentResponse{
		ID:           doc.ID,
		TemplateName: doc.TemplateName,
		Content:      doc.Content,
		Data:         data,
		Status:       doc.Status,
		Reference:    doc.ReferenceCode,
		QRCode:       doc.QRCode,
		UserID:       doc.UserID,
	}
}
