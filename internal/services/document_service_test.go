package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestUser(t *testing.T, users *UserService, email, userType string) *models.User {
	t.Helper()
	user, err := users.Register(context.Background(), RegisterInput{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Password:     "pw123456",
		UserTypeName: userType,
	})
	require.NoError(t, err)
	return user
}

func TestDocumentService_CreateStartsSaved(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "affidavit_of_loss",
		Content:      "I, Test User, declare...",
		Data:         map[string]interface{}{"item": "passport"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSaved, doc.Status)
	assert.Nil(t, doc.ReferenceCode)
	assert.NotEmpty(t, doc.ID)
}

func TestDocumentService_OwnershipChecks(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")
	stranger := registerTestUser(t, users, "stranger@example.com", "")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "t", Content: "c", Data: map[string]interface{}{},
	})
	require.NoError(t, err)

	_, err = docs.GetByID(ctx, doc.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = docs.MarkPaid(ctx, doc.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = docs.GetByID(ctx, "no-such-id", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_GenerateReferenceGuards(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "t", Content: "c", Data: map[string]interface{}{},
	})
	require.NoError(t, err)

	// not paid yet
	_, err = docs.GenerateReference(ctx, doc.ID, owner.ID)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	paid, err := docs.MarkPaid(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)

	withRef, err := docs.GenerateReference(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, withRef.ReferenceCode)

	code := *withRef.ReferenceCode
	assert.Len(t, code, 9)
	assert.Equal(t, strings.ToUpper(code), code)
	seen := make(map[rune]bool)
	for _, r := range code {
		assert.False(t, seen[r], "reference letters do not repeat")
		seen[r] = true
	}

	qr, err := base64.StdEncoding.DecodeString(withRef.QRCode)
	require.NoError(t, err)
	assert.NotEmpty(t, qr)

	// a reference code is permanent
	_, err = docs.GenerateReference(ctx, doc.ID, owner.ID)
	assert.ErrorIs(t, err, ErrAlreadyHasReference)
}

func TestDocumentService_MarkPaidIsMonotonic(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "t", Content: "c", Data: map[string]interface{}{},
	})
	require.NoError(t, err)

	_, err = docs.MarkPaid(ctx, doc.ID, owner.ID)
	require.NoError(t, err)

	// repeated confirmation is a no-op
	again, err := docs.MarkPaid(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, again.Status)
}

func TestDocumentService_AttestLifecycle(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "alice@example.com", "")
	commissioner := registerTestUser(t, users, "commissioner@example.com", "commissioner")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "affidavit",
		Content:      "original content",
		Data:         map[string]interface{}{"name": "alice"},
	})
	require.NoError(t, err)

	_, err = docs.MarkPaid(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	withRef, err := docs.GenerateReference(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	ref := *withRef.ReferenceCode

	attested, err := docs.Attest(ctx, ref, "countersigned content", commissioner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAttested, attested.Status)
	assert.Equal(t, "countersigned content", attested.Content)

	record, err := docs.GetAttestedRecord(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, commissioner.ID, record.CommissionerID)
	assert.Equal(t, "countersigned content", record.Content)

	// attestation is exclusive: the second call always fails
	_, err = docs.Attest(ctx, ref, "again", commissioner.ID)
	assert.ErrorIs(t, err, ErrAlreadyAttested)

	// lookup by reference still works for anyone past the route gate
	found, err := docs.GetByReference(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)

	_, err = docs.Attest(ctx, "NOSUCHREF", "content", commissioner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_AttestedDocumentIsImmutable(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")
	commissioner := registerTestUser(t, users, "comm@example.com", "commissioner")

	doc, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
		TemplateName: "t", Content: "c", Data: map[string]interface{}{},
	})
	require.NoError(t, err)

	newContent := "edited"
	updated, err := docs.Update(ctx, doc.ID, owner.ID, DocumentPatch{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = docs.MarkPaid(ctx, doc.ID, owner.ID)
	require.NoError(t, err)
	withRef, err := docs.GenerateReference(ctx, doc.ID, owner.ID)
	require.NoError(t, err)

	_, err = docs.Attest(ctx, *withRef.ReferenceCode, "final", commissioner.ID)
	require.NoError(t, err)

	// owner edits are rejected once attested
	_, err = docs.Update(ctx, doc.ID, owner.ID, DocumentPatch{Content: &newContent})
	assert.ErrorIs(t, err, ErrAlreadyAttested)

	// and payment confirmation can no longer move the status
	_, err = docs.MarkPaid(ctx, doc.ID, owner.ID)
	assert.ErrorIs(t, err, ErrAlreadyAttested)
}

func TestDocumentService_ListByOwner(t *testing.T) {
	users, _, docs, _ := newTestServices(t)
	ctx := context.Background()
	owner := registerTestUser(t, users, "owner@example.com", "")
	other := registerTestUser(t, users, "other@example.com", "")

	for i := 0; i < 3; i++ {
		_, err := docs.Create(ctx, owner.ID, CreateDocumentInput{
			TemplateName: "t", Content: "c", Data: map[string]interface{}{},
		})
		require.NoError(t, err)
	}
	_, err := docs.Create(ctx, other.ID, CreateDocumentInput{
		TemplateName: "t", Content: "c", Data: map[string]interface{}{},
	})
	require.NoError(t, err)

	mine, err := docs.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}
