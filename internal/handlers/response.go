package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/darknesspwnsu/tppcnomics-analytics/internal/pkg/errors"
)

type okEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type errEnvelope struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, okEnvelope{OK: true, Data: payload})
}

func RespondError(c *gin.Context, status int, reason string) {
	c.JSON(status, errEnvelope{OK: false, Reason: reason})
}

// RespondServiceError maps service sentinel errors onto status codes so
// handlers never leak raw errors past the boundary.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrNoMatchupAvailable):
		RespondError(c, http.StatusNotFound, "no matchup available")
	case errors.Is(err, errs.ErrInvalidVote):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrRetryExhausted):
		RespondError(c, http.StatusConflict, "vote conflicted repeatedly, please retry")
	default:
		RespondError(c, http.StatusInternalServerError, "internal error")
	}
}
