package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/usecase/interaction"
)

type InteractionHandler struct {
	interactionUseCase *interaction.InteractionUseCase
}

func NewInteractionHandler(interactionUseCase *interaction.InteractionUseCase) *InteractionHandler {
	return &InteractionHandler{
		interactionUseCase: interactionUseCase,
	}
}

// RecordInteraction handles POST /interactions
// @Summary Record an interaction outcome
// @Description Record like/dislike/accept/decline/report towards another user
// @Tags interactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body interaction.InteractionRequest true "Interaction data"
// @Success 200 {object} interaction.InteractionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interactions [post]
func (h *InteractionHandler) RecordInteraction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req interaction.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	response, err := h.interactionUseCase.RecordInteraction(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownOutcome), errors.Is(err, domain.ErrCannotMatchSelf):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to record interaction"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBehavior handles GET /interactions/me
// @Summary Get my interaction history
// @Description Get the current user's accumulated behavior record
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.UserBehavior
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interactions/me [get]
func (h *InteractionHandler) GetBehavior(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	behavior, err := h.interactionUseCase.GetBehavior(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get behavior"})
		return
	}

	c.JSON(http.StatusOK, behavior)
}
