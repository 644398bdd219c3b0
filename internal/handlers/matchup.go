package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/middleware"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/services"
)

type MatchupHandler struct {
	log      *logger.Logger
	selector services.MatchupSelectorService
}

func NewMatchupHandler(log *logger.Logger, selector services.MatchupSelectorService) *MatchupHandler {
	return &MatchupHandler{
		log:      log.With("handler", "MatchupHandler"),
		selector: selector,
	}
}

type matchupResponse struct {
	PairID    uuid.UUID `json:"pair_id"`
	PairKey   string    `json:"pair_key"`
	Mode      string    `json:"mode"`
	Prompt    string    `json:"prompt"`
	LeftKeys  []string  `json:"left_keys"`
	RightKeys []string  `json:"right_keys"`
	Featured  bool      `json:"featured"`
}

// Get selects one matchup for the visitor. Optional query params: mode
// (e.g. 1v1), just_shown (pair id to avoid repeating immediately).
func (h *MatchupHandler) Get(c *gin.Context) {
	visitorID := middleware.VisitorID(c)
	mode := c.Query("mode")

	var justShown *uuid.UUID
	if raw := c.Query("just_shown"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "just_shown is not a valid pair id")
			return
		}
		justShown = &id
	}

	pair, err := h.selector.SelectMatchup(c.Request.Context(), visitorID, mode, justShown)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	left, right, err := pair.Sides()
	if err != nil {
		h.log.Error("undecodable pair sides", "pair_id", pair.ID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, matchupResponse{
		PairID:    pair.ID,
		PairKey:   pair.PairKey,
		Mode:      pair.Mode,
		Prompt:    pair.Prompt,
		LeftKeys:  left,
		RightKeys: right,
		Featured:  pair.Featured,
	})
}
