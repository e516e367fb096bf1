package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
		return
	}
	RespondOK(c, gin.H{
		"profile":  profile,
		"strength": services.ProfileStrength(profile),
	})
}

func (h *ProfileHandler) PatchMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := h.profileService.Patch(c.Request.Context(), userID, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "profile_patch_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"profile":  profile,
		"strength": services.ProfileStrength(profile),
	})
}
