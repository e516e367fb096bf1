package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	redisclient "github.com/voyageprep/voyage-backend/internal/clients/redis"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/services"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type UniversityHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
	searchService  services.SearchService
	profileService services.ProfileService
	cache          redisclient.Cache
	cacheTTL       time.Duration
	rateLimit      int
	rateWindow     time.Duration
}

func NewUniversityHandler(
	baseLog *logger.Logger,
	catalogService services.CatalogService,
	searchService services.SearchService,
	profileService services.ProfileService,
	cache redisclient.Cache,
	cacheTTL time.Duration,
	rateLimit int,
	rateWindow time.Duration,
) *UniversityHandler {
	return &UniversityHandler{
		log:            baseLog.With("handler", "UniversityHandler"),
		catalogService: catalogService,
		searchService:  searchService,
		profileService: profileService,
		cache:          cache,
		cacheTTL:       cacheTTL,
		rateLimit:      rateLimit,
		rateWindow:     rateWindow,
	}
}

// List serves GET /universities. With rag=true the search term goes through the
// vector index scoped by the caller's profile; otherwise it is a catalog query.
func (h *UniversityHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	search := c.Query("search")
	useRAG, _ := strconv.ParseBool(c.DefaultQuery("rag", "false"))

	if !useRAG {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		universities, err := h.catalogService.List(c.Request.Context(), search, limit)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "university_list_failed", err)
			return
		}
		RespondOK(c, gin.H{"universities": universities})
		return
	}

	if !h.allow(c, "search:"+userID.String()) {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
		return
	}
	strength := services.ProfileStrength(profile)

	cacheKey := "search:" + userID.String() + ":" + search
	if h.cache != nil {
		if raw, hit, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil && hit {
			var matches []services.UniversityMatch
			if json.Unmarshal([]byte(raw), &matches) == nil {
				RespondOK(c, gin.H{"matches": matches, "strength": strength, "cached": true})
				return
			}
		}
	}

	matches, err := h.searchService.Search(c.Request.Context(), profile, search)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "search_failed", err)
		return
	}
	if h.cache != nil {
		if raw, err := json.Marshal(matches); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, string(raw), h.cacheTTL); err != nil {
				h.log.Warn("Search cache write failed", "error", err)
			}
		}
	}
	RespondOK(c, gin.H{"matches": matches, "strength": strength, "cached": false})
}

func (h *UniversityHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	university, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "university_not_found", err)
		return
	}
	RespondOK(c, gin.H{"university": university})
}

// Recommend serves GET /recommendations with a short-TTL read-through cache so
// repeated dashboard loads do not re-run the vector query.
func (h *UniversityHandler) Recommend(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	cacheKey := "recommend:" + userID.String()
	if h.cache != nil {
		if raw, hit, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil && hit {
			var matches []services.UniversityMatch
			if json.Unmarshal([]byte(raw), &matches) == nil {
				RespondOK(c, gin.H{"matches": matches, "cached": true})
				return
			}
		}
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
		return
	}
	matches, err := h.searchService.Recommend(c.Request.Context(), profile)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "recommend_failed", err)
		return
	}
	if h.cache != nil {
		if raw, err := json.Marshal(matches); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, string(raw), h.cacheTTL); err != nil {
				h.log.Warn("Recommendation cache write failed", "error", err)
			}
		}
	}
	RespondOK(c, gin.H{"matches": matches, "cached": false})
}

func (h *UniversityHandler) Seed(c *gin.Context) {
	var req struct {
		Universities []*types.University `json:"universities" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	universities, err := h.catalogService.Seed(c.Request.Context(), req.Universities)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "university_seed_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"universities": universities})
}

func (h *UniversityHandler) Reindex(c *gin.Context) {
	count, err := h.catalogService.Reindex(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusBadGateway, "reindex_failed", err)
		return
	}
	RespondOK(c, gin.H{"indexed": count})
}

// allow enforces the fixed-window rate limit when redis is wired. Without
// redis the limiter is a no-op.
func (h *UniversityHandler) allow(c *gin.Context, key string) bool {
	if h.cache == nil || h.rateLimit <= 0 {
		return true
	}
	ok, err := h.cache.Allow(c.Request.Context(), key, h.rateLimit, h.rateWindow)
	if err != nil {
		h.log.Warn("Rate limiter unavailable, allowing request", "error", err)
		return true
	}
	if !ok {
		RespondError(c, http.StatusTooManyRequests, "rate_limited", nil)
		c.Abort()
		return false
	}
	return true
}
