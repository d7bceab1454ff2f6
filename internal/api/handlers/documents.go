package handlers

import (
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api/middleware"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documents *services.DocumentService
	logger    *zap.Logger
}

func NewDocumentHandler(documents *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger.With(zap.String("handler", "document")),
	}
}

type createDocumentRequest struct {
	TemplateName string                 `json:"template_name" binding:"required"`
	Content      string                 `json:"document" binding:"required"`
	Data         map[string]interface{} `json:"document_data" binding:"required"`
}

func (dh *DocumentHandler) Create(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "template_name, document and document_data are required"})
		return
	}

	user := middleware.CurrentUser(c)
	doc, err := dh.documents.Create(c.Request.Context(), user.ID, services.CreateDocumentInput{
		TemplateName: req.TemplateName,
		Content:      req.Content,
		Data:         req.Data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDocumentResponse(doc))
}

func (dh *DocumentHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	docs, err := dh.documents.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, newDocumentResponse(&docs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	doc, err := dh.documents.GetByID(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

type updateDocumentRequest struct {
	TemplateName *string                `json:"template_name"`
	Content      *string                `json:"document"`
	Data         map[string]interface{} `json:"document_data"`
}

func (dh *DocumentHandler) Update(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	doc, err := dh.documents.Update(c.Request.Context(), c.Param("id"), user.ID, services.DocumentPatch{
		TemplateName: req.TemplateName,
		Content:      req.Content,
		Data:         req.Data,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

func (dh *DocumentHandler) Pay(c *gin.Context) {
	user := middleware.CurrentUser(c)
	doc, err := dh.documents.MarkPaid(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_id": doc.ID, "status": doc.Status})
}

func (dh *DocumentHandler) GenerateReference(c *gin.Context) {
	user := middleware.CurrentUser(c)
	doc, err := dh.documents.GenerateReference(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

func (dh *DocumentHandler) SearchByReference(c *gin.Context) {
	ref := c.Query("document_ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "document_ref is required"})
		return
	}

	doc, err := dh.documents.GetByReference(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

type attestRequest struct {
	ReferenceCode string `json:"document_ref" binding:"required"`
	Content       string `json:"document" binding:"required"`
}

func (dh *DocumentHandler) Attest(c *gin.Context) {
	var req attestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "document_ref and document are required"})
		return
	}

	user := middleware.CurrentUser(c)
	doc, err := dh.documents.Attest(c.Request.Context(), req.ReferenceCode, req.Content, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document_id": doc.ID, "status": doc.Status})
}
