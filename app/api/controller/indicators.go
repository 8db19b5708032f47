package controller

import "net/http"

// HandleIndicators lists the indicator master from the reference catalog.
// GET /api/indicators
func (c *Controller) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"indicators": c.App.Catalog.Indicators(),
	})
}
