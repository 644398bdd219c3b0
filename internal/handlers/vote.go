package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/middleware"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/services"
)

type VoteHandler struct {
	log   *logger.Logger
	votes services.VoteService
}

func NewVoteHandler(log *logger.Logger, votes services.VoteService) *VoteHandler {
	return &VoteHandler{
		log:   log.With("handler", "VoteHandler"),
		votes: votes,
	}
}

type voteRequest struct {
	PairID uuid.UUID `json:"pair_id" binding:"required"`
	Side   string    `json:"side" binding:"required"`
}

func (h *VoteHandler) Create(c *gin.Context) {
	visitorID := middleware.VisitorID(c)
	if visitorID == "" {
		RespondError(c, http.StatusUnauthorized, "missing visitor identity")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid vote payload")
		return
	}

	receipt, err := h.votes.RecordVote(c.Request.Context(), visitorID, req.PairID, strings.ToUpper(req.Side))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, receipt)
}
