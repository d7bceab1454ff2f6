package services

import (
	"context"
	"errors"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttestationService stores each commissioner's signature and stamp pair.
type AttestationService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAttestationService(db *gorm.DB, logger *zap.Logger) *AttestationService {
	return &AttestationService{
		db:     db,
		logger: logger.With(zap.String("service", "attestation_service")),
	}
}

// Upsert overwrites the caller's profile in place when one exists. Idempotent
// by user id.
func (as *AttestationService) Upsert(ctx context.Context, userID, signature, stamp string) (*models.Attestation, error) {
	var existing models.Attestation
	err := as.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"signature": signature,
			"stamp":     stamp,
		}
		if err := as.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, wrapStorage(err)
		}
		existing.Signature = signature
		existing.Stamp = stamp
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage(err)
	}

	attestation := &models.Attestation{
		UserID:    userID,
		Signature: signature,
		Stamp:     stamp,
	}
	if err := as.db.WithContext(ctx).Create(attestation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent first save; the row exists now, overwrite it
			return as.Upsert(ctx, userID, signature, stamp)
		}
		return nil, wrapStorage(err)
	}

	as.logger.Info("Attestation profile created", zap.String("user_id", userID))
	return attestation, nil
}

func (as *AttestationService) GetByOwner(ctx context.Context, userID string) (*models.Attestation, error) {
	var attestation models.Attestation
	err := as.db.WithContext(ctx).Where("user_id = ?", userID).First(&attestation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &attestation, nil
}
