package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eed-project/eedx/pkg/ingest"
	"github.com/eed-project/eedx/pkg/utils"
)

type ingestRequest struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// HandleIngestTrigger starts a background ingestion run. POST /api/ingest
// with an optional {"start_year": N, "end_year": M} body; missing fields fall
// back to the configured defaults. Replies 202 with the run id, or 409 when a
// run is already active.
func (c *Controller) HandleIngestTrigger(w http.ResponseWriter, r *http.Request) {
	req := ingestRequest{
		StartYear: utils.EnvInt("EEDX_START_YEAR", 2010),
		EndYear:   utils.EnvInt("EEDX_END_YEAR", 2019),
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	// The run outlives the request; detach it from the request context.
	rpt, err := c.App.Runner.TryStart(context.WithoutCancel(r.Context()), req.StartYear, req.EndYear)
	if err != nil {
		if errors.Is(err, ingest.ErrRunActive) {
			writeError(w, http.StatusConflict, "ingestion run already active")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, rpt)
}

// HandleIngestStatus reports the runner state and the last run, if any.
// GET /api/ingest/status
func (c *Controller) HandleIngestStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.App.Runner.Status())
}
