package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	// Activity recency feeds match scoring; viewing your own profile
	// counts as being active.
	_ = h.profileUseCase.TouchActivity(c.Request.Context(), userID)

	c.JSON(http.StatusOK, p)
}

// GetProfile handles GET /profile/:user_id
// @Summary Get a profile
// @Description Get another sister's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/{user_id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	p, err := h.profileUseCase.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetMyPreferences handles GET /preferences/me
// @Summary Get my matching preferences
// @Tags preferences
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Preferences
// @Failure 401 {object} ErrorResponse
// @Router /preferences/me [get]
func (h *ProfileHandler) GetMyPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	prefs, err := h.profileUseCase.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdateMyPreferences handles PUT /preferences/me
// @Summary Update my matching preferences
// @Tags preferences
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.Preferences true "New preferences"
// @Success 200 {object} domain.Preferences
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /preferences/me [put]
func (h *ProfileHandler) UpdateMyPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs domain.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.profileUseCase.UpdatePreferences(c.Request.Context(), userID, &prefs); err != nil {
		if errors.Is(err, domain.ErrInvalidPreferences) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func respondProfileError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get profile"})
}
