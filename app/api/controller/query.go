package controller

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/db"
	"github.com/eed-project/eedx/pkg/db/models"
)

// HandleQuery evaluates one fact query.
// GET /api/query?country=Brazil&indicator=42&start=2010&end=2015&op=max
//
// Exactly one of country (id, exact name or ISO code) and aggregate must be
// given. The period is either year= or start=&end=; omitting both matches all
// years. op is one of sum, average, max, min.
func (c *Controller) HandleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var sel models.Selector

	countryKey := q.Get("country")
	sel.Aggregate = q.Get("aggregate")
	if countryKey != "" && sel.Aggregate != "" {
		writeError(w, http.StatusBadRequest, "country and aggregate are mutually exclusive")
		return
	}
	if countryKey != "" {
		country, err := c.App.Store.GetCountry(r.Context(), countryKey)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeError(w, http.StatusNotFound, "country not found")
				return
			}
			c.App.Logger.Error("get country failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		sel.CountryID = country.ID
	}

	if raw := q.Get("indicator"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid indicator")
			return
		}
		sel.IndicatorID = &id
	}

	years, ok := parseYears(w, q.Get("year"), q.Get("start"), q.Get("end"))
	if !ok {
		return
	}
	sel.Years = years

	reduce, err := models.ParseReducer(q.Get("op"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sel.Reduce = reduce

	result, err := c.App.Store.Query(r.Context(), sel)
	if err != nil {
		if errors.Is(err, models.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.App.Logger.Error("query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseYears turns year= or start=&end= into a YearRange. It writes the error
// response itself and reports success through the second return.
func parseYears(w http.ResponseWriter, year, start, end string) (models.YearRange, bool) {
	if year != "" {
		if start != "" || end != "" {
			writeError(w, http.StatusBadRequest, "year and start/end are mutually exclusive")
			return models.YearRange{}, false
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return models.YearRange{}, false
		}
		return models.YearRange{Start: y, End: y}, true
	}
	if start == "" && end == "" {
		return models.YearRange{}, true
	}
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end must be given together")
		return models.YearRange{}, false
	}
	s, err := strconv.Atoi(start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start")
		return models.YearRange{}, false
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end")
		return models.YearRange{}, false
	}
	return models.YearRange{Start: s, End: e}, true
}
