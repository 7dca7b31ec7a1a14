package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/usecase/recommend"
)

type NetworkHandler struct {
	recommendUseCase *recommend.RecommendUseCase
}

func NewNetworkHandler(recommendUseCase *recommend.RecommendUseCase) *NetworkHandler {
	return &NetworkHandler{
		recommendUseCase: recommendUseCase,
	}
}

// GetMyNetwork handles GET /network/me
// @Summary Get my network analysis
// @Description Get connection count, influence score and network density
// @Tags network
// @Security BearerAuth
// @Produce json
// @Success 200 {object} matching.NetworkAnalysis
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /network/me [get]
func (h *NetworkHandler) GetMyNetwork(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	analysis, err := h.recommendUseCase.GetNetworkAnalysis(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to analyze network"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetTrustPaths handles GET /network/trust-paths
// @Summary Get trust-path recommendations
// @Description Get second-degree candidates reachable through accepted connections
// @Tags network
// @Security BearerAuth
// @Produce json
// @Param max_hops query int false "Maximum path length" default(3)
// @Success 200 {array} matching.TrustPath
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /network/trust-paths [get]
func (h *NetworkHandler) GetTrustPaths(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	maxHops, _ := strconv.Atoi(c.DefaultQuery("max_hops", "3"))

	paths, err := h.recommendUseCase.GetTrustPaths(c.Request.Context(), userID, maxHops)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to find trust paths"})
		return
	}

	c.JSON(http.StatusOK, paths)
}
