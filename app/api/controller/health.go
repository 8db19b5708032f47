package controller

import "net/http"

// HandleHealth reports liveness of the API and its database.
// GET /health
func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.App.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "errored", "error": "database connection error",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
