package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/services"
)

type ShortlistHandler struct {
	shortlistService services.ShortlistService
}

func NewShortlistHandler(shortlistService services.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{shortlistService: shortlistService}
}

func (h *ShortlistHandler) Add(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	universityID, err := pathUUID(c, "universityId")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.shortlistService.Add(c.Request.Context(), userID, universityID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "shortlist_add_failed", err)
		return
	}
	RespondOK(c, result)
}

func (h *ShortlistHandler) Remove(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	universityID, err := pathUUID(c, "universityId")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.shortlistService.Remove(c.Request.Context(), userID, universityID); err != nil {
		RespondError(c, http.StatusNotFound, "shortlist_remove_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShortlistHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	universities, err := h.shortlistService.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "shortlist_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"universities": universities})
}
