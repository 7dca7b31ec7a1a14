package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/usecase/recommend"
)

type MatchHandler struct {
	recommendUseCase *recommend.RecommendUseCase
}

func NewMatchHandler(recommendUseCase *recommend.RecommendUseCase) *MatchHandler {
	return &MatchHandler{
		recommendUseCase: recommendUseCase,
	}
}

// GetMatches handles GET /matches
// @Summary Get ranked matches
// @Description Get compatibility-ranked matches for the current user
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum results"
// @Param fresh query bool false "Bypass the result cache"
// @Param with_behavior query bool false "Apply collaborative re-ranking"
// @Success 200 {array} domain.MatchScore
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	req := &recommend.MatchesRequest{
		DisableCache: c.Query("fresh") == "true",
		WithBehavior: c.Query("with_behavior") == "true",
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		req.Limit = limit
	}

	matches, err := h.recommendUseCase.GetMatches(c.Request.Context(), userID, req)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetFeatureMatches handles GET /matches/feature/:feature
// @Summary Get special-feature matches
// @Description Get companions for a special feature (studyBuddy, mentorship, eventCompanion, professionalNetworking)
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param feature path string true "Feature name"
// @Param limit query int false "Maximum results"
// @Success 200 {array} domain.MatchScore
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/feature/{feature} [get]
func (h *MatchHandler) GetFeatureMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	matches, err := h.recommendUseCase.GetFeatureMatches(c.Request.Context(), userID, c.Param("feature"), limit)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetCollaborative handles GET /matches/collaborative
// @Summary Get collaborative recommendations
// @Description Get suggestions based on what similar sisters connected with
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum results"
// @Success 200 {array} matching.Recommendation
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/collaborative [get]
func (h *MatchHandler) GetCollaborative(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recommendations, err := h.recommendUseCase.GetCollaborative(c.Request.Context(), userID, limit)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendations)
}

// GetConversationStarters handles GET /matches/:user_id/starters
// @Summary Get conversation starters
// @Description Get opener suggestions for messaging a matched sister
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Target user id"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/{user_id}/starters [get]
func (h *MatchHandler) GetConversationStarters(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	starters, err := h.recommendUseCase.GetConversationStarters(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"starters": starters})
}

// ClearCache handles DELETE /matches/cache
// @Summary Clear cached matches
// @Description Invalidate the current user's cached match rankings
// @Tags matches
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/cache [delete]
func (h *MatchHandler) ClearCache(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.recommendUseCase.ClearCache(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to clear cache"})
		return
	}

	c.Status(http.StatusNoContent)
}

// LearnPreferences handles POST /preferences/learn
// @Summary Learn preferences from behavior
// @Description Derive widened matching preferences from interaction history
// @Tags preferences
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Preferences
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /preferences/learn [post]
func (h *MatchHandler) LearnPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	prefs, err := h.recommendUseCase.LearnPreferences(c.Request.Context(), userID)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func respondMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
	case errors.Is(err, domain.ErrInvalidPreferences):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownFeature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCannotMatchSelf):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
