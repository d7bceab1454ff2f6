package handlers

import (
	"errors"
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api/middleware"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttestationHandler struct {
	attestations *services.AttestationService
	logger       *zap.Logger
}

func NewAttestationHandler(attestations *services.AttestationService, logger *zap.Logger) *AttestationHandler {
	return &AttestationHandler{
		attestations: attestations,
		logger:       logger.With(zap.String("handler", "attestation")),
	}
}

type attestationRequest struct {
	Signature string `json:"signature" binding:"required"`
	Stamp     string `json:"stamp" binding:"required"`
}

func (ath *AttestationHandler) Upsert(c *gin.Context) {
	var req attestationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "signature and stamp are required"})
		return
	}

	user := middleware.CurrentUser(c)
	attestation, err := ath.attestations.Upsert(c.Request.Context(), user.ID, req.Signature, req.Stamp)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   attestation.UserID,
		"signature": attestation.Signature,
		"stamp":     attestation.Stamp,
	})
}

func (ath *AttestationHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	attestation, err := ath.attestations.GetByOwner(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "you do not have any signature or stamp saved"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   attestation.UserID,
		"signature": attestation.Signature,
		"stamp":     attestation.Stamp,
	})
}
