package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/utils"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	referenceLength  = 9
	referenceRetries = 4
	qrLookupBaseURL  = "https://qr-searchDocument/"
)

// DocumentService owns the document lifecycle: SAVED on creation, PAID after
// payment confirmation, a reference code and QR image while PAID, ATTESTED
// once a commissioner countersigns. Status never moves backward.
type DocumentService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

type CreateDocumentInput struct {
	TemplateName string
	Content      string
	Data         map[string]interface{}
}

// DocumentPatch enumerates the fields the owner may change while the document
// is still editable. Nil means "leave as is".
type DocumentPatch struct {
	TemplateName *string
	Content      *string
	Data         map[string]interface{}
}

func NewDocumentService(db *gorm.DB, logger *zap.Logger, metricsCollector *metrics.MetricsCollector) *DocumentService {
	return &DocumentService{
		db:      db,
		logger:  logger.With(zap.String("service", "document_service")),
		metrics: metricsCollector,
	}
}

func (ds *DocumentService) Create(ctx context.Context, userID string, in CreateDocumentInput) (*models.Document, error) {
	start := time.Now()

	data, err := json.Marshal(in.Data)
	if err != nil {
		return nil, wrapStorage(err)
	}

	doc := &models.Document{
		ID:           uuid.New().String(),
		TemplateName: in.TemplateName,
		Content:      in.Content,
		Data:         datatypes.JSON(data),
		Status:       models.StatusSaved,
		UserID:       userID,
	}

	if err := ds.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, wrapStorage(err)
	}

	ds.metrics.IncrementCounter("documents_created")
	ds.metrics.ObserveLatency("document_create", time.Since(start))
	ds.logger.Info("Document created", zap.String("doc_id", doc.ID), zap.String("user_id", userID))
	return doc, nil
}

// GetByID returns a document through its opaque id. Only the owner may read a
// document this way; attestors go through GetByReference.
func (ds *DocumentService) GetByID(ctx context.Context, docID, requesterID string) (*models.Document, error) {
	doc, err := ds.get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != requesterID {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (ds *DocumentService) ListByOwner(ctx context.Context, userID string) ([]models.Document, error) {
	var docs []models.Document
	if err := ds.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return docs, nil
}

// GetByReference has no ownership check: any caller that passed the route's
// user-type gate may look a document up by its shareable code.
func (ds *DocumentService) GetByReference(ctx context.Context, referenceCode string) (*models.Document, error) {
	var doc models.Document
	err := ds.db.WithContext(ctx).Where("reference_code = ?", referenceCode).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &doc, nil
}

// Update applies an owner's edits. Attested documents are immutable: the
// countersigned snapshot must stay exactly what the commissioner saw.
func (ds *DocumentService) Update(ctx context.Context, docID, requesterID string, patch DocumentPatch) (*models.Document, error) {
	doc, err := ds.GetByID(ctx, docID, requesterID)
	if err != nil {
		return nil, err
	}
	if doc.Status == models.StatusAttested {
		return nil, ErrAlreadyAttested
	}

	updates := make(map[string]interface{})
	if patch.TemplateName != nil {
		updates["template_name"] = *patch.TemplateName
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Data != nil {
		data, err := json.Marshal(patch.Data)
		if err != nil {
			return nil, wrapStorage(err)
		}
		updates["data"] = datatypes.JSON(data)
	}
	if len(updates) == 0 {
		return doc, nil
	}

	if err := ds.db.WithContext(ctx).Model(doc).Updates(updates).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return ds.get(ctx, docID)
}

// MarkPaid transitions SAVED to PAID. The payment gateway itself is a trust
// boundary outside this service; confirmation arrives as this call. Repeated
// calls on a PAID document are no-ops so gateway retries stay harmless.
func (ds *DocumentService) MarkPaid(ctx context.Context, docID, requesterID string) (*models.Document, error) {
	doc, err := ds.GetByID(ctx, docID, requesterID)
	if err != nil {
		return nil, err
	}

	switch doc.Status {
	case models.StatusAttested:
		return nil, ErrAlreadyAttested
	case models.StatusPaid:
		return doc, nil
	}

	if err := ds.db.WithContext(ctx).Model(doc).Update("status", models.StatusPaid).Error; err != nil {
		return nil, wrapStorage(err)
	}
	doc.Status = models.StatusPaid

	ds.metrics.IncrementCounter("documents_paid")
	ds.logger.Info("Document paid", zap.String("doc_id", docID))
	return doc, nil
}

// GenerateReference assigns the permanent shareable code and its QR image to a
// paid document. The unique index on reference_code is the real uniqueness
// guard; on a collision the code is resampled a bounded number of times.
func (ds *DocumentService) GenerateReference(ctx context.Context, docID, requesterID string) (*models.Document, error) {
	start := time.Now()

	doc, err := ds.GetByID(ctx, docID, requesterID)
	if err != nil {
		return nil, err
	}
	if doc.ReferenceCode != nil {
		return nil, ErrAlreadyHasReference
	}
	if doc.Status != models.StatusPaid {
		return nil, ErrPaymentRequired
	}

	for attempt := 0; attempt < referenceRetries; attempt++ {
		code, err := utils.RandomReferenceCode(referenceLength)
		if err != nil {
			return nil, wrapStorage(err)
		}
		referenceCode := strings.ToUpper(code)

		qr, err := utils.GenerateQRCode(qrLookupBaseURL + referenceCode)
		if err != nil {
			return nil, wrapStorage(err)
		}

		err = ds.db.WithContext(ctx).Model(doc).Updates(map[string]interface{}{
			"reference_code": referenceCode,
			"qr_code":        qr,
		}).Error
		if err == nil {
			doc.ReferenceCode = &referenceCode
			doc.QRCode = qr

			ds.metrics.IncrementCounter("references_generated")
			ds.metrics.ObserveSize("qr_code_size", float64(len(qr)))
			ds.metrics.ObserveLatency("reference_generate", time.Since(start))
			ds.logger.Info("Reference generated",
				zap.String("doc_id", docID),
				zap.String("reference_code", referenceCode))
			return doc, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, wrapStorage(err)
		}
		ds.logger.Warn("Reference code collision, retrying", zap.String("doc_id", docID))
	}

	return nil, wrapStorage(errors.New("exhausted reference code attempts"))
}

// Attest countersigns the document behind referenceCode and records exactly
// one AttestedDocument row. The unique index on the attested reference code
// closes the check-then-act window: whichever transaction commits second gets
// a duplicate-key error regardless of what its pre-check saw.
func (ds *DocumentService) Attest(ctx context.Context, referenceCode, content, commissionerID string) (*models.Document, error) {
	var doc models.Document

	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AttestedDocument
		err := tx.Where("reference_code = ?", referenceCode).First(&existing).Error
		if err == nil {
			return ErrAlreadyAttested
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return wrapStorage(err)
		}

		if err := tx.Where("reference_code = ?", referenceCode).First(&doc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStorage(err)
		}

		// Defensive: a SAVED document cannot hold a reference code under
		// GenerateReference's preconditions, but the payment rule is cheap to
		// restate here.
		if doc.Status == models.StatusSaved {
			return ErrPaymentRequired
		}

		if err := tx.Model(&doc).Updates(map[string]interface{}{
			"content": content,
			"status":  models.StatusAttested,
		}).Error; err != nil {
			return wrapStorage(err)
		}

		record := &models.AttestedDocument{
			ID:             uuid.New().String(),
			ReferenceCode:  referenceCode,
			Content:        content,
			CommissionerID: commissionerID,
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAttested
			}
			return wrapStorage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc.Content = content
	doc.Status = models.StatusAttested

	ds.metrics.IncrementCounter("documents_attested")
	ds.logger.Info("Document attested",
		zap.String("doc_id", doc.ID),
		zap.String("reference_code", referenceCode),
		zap.String("commissioner_id", commissionerID))
	return &doc, nil
}

func (ds *DocumentService) GetAttestedRecord(ctx context.Context, referenceCode string) (*models.AttestedDocument, error) {
	var record models.AttestedDocument
	err := ds.db.WithContext(ctx).Where("reference_code = ?", referenceCode).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &record, nil
}

func (ds *DocumentService) get(ctx context.Context, docID string) (*models.Document, error) {
	var doc models.Document
	if err := ds.db.WithContext(ctx).First(&doc, "id = ?", docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &doc, nil
}
