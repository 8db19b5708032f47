package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/db"
)

// HandleCountries lists the persisted country master.
// GET /api/countries
func (c *Controller) HandleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := c.App.Store.ListCountries(r.Context())
	if err != nil {
		c.App.Logger.Error("list countries failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": countries})
}

// HandleCountry returns one country by id, exact name or ISO code.
// GET /api/countries/{key}
func (c *Controller) HandleCountry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	country, err := c.App.Store.GetCountry(r.Context(), key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "country not found")
			return
		}
		c.App.Logger.Error("get country failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, country)
}

// HandleCountryStats returns the per-indicator year→value series for one
// country. The optional indicator_ids parameter is a comma separated id list.
// GET /api/countries/{key}/stats?indicator_ids=1,2
func (c *Controller) HandleCountryStats(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	country, err := c.App.Store.GetCountry(r.Context(), key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "country not found")
			return
		}
		c.App.Logger.Error("get country failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	var indicatorIDs []int64
	if raw := r.URL.Query().Get("indicator_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid indicator_ids")
				return
			}
			indicatorIDs = append(indicatorIDs, id)
		}
	}

	stats, err := c.App.Store.CountryStats(r.Context(), country.ID, indicatorIDs)
	if err != nil {
		c.App.Logger.Error("country stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"country":          country,
		"indicator_values": stats,
	})
}
