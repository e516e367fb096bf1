package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/services"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

type createDocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (h *DocumentHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.documentService.Create(c.Request.Context(), userID, services.CreateDocumentInput{
		Title:   req.Title,
		Type:    types.DocumentType(strings.ToUpper(req.Type)),
		Content: req.Content,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "document_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	docID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.documentService.Get(c.Request.Context(), userID, docID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "document_not_found", err)
		return
	}
	RespondOK(c, gin.H{"document": doc})
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	docs, err := h.documentService.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "document_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	docID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.documentService.Update(c.Request.Context(), userID, docID, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "document_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"document": doc})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	docID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), userID, docID); err != nil {
		RespondError(c, http.StatusNotFound, "document_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
