package models

// Fact is one (indicator, country, year) data point together with the
// provenance of the indicator it came from. The triple (IndicatorID,
// CountryID, Year) identifies a fact uniquely; Value is always a resolved
// number, never null.
type Fact struct {
	IndicatorID int64   `json:"indicator_id"`
	CountryID   int32   `json:"country_id"`
	Year        int     `json:"year"`
	Value       float64 `json:"value"`

	// Indicator provenance, stored alongside each fact row.
	APICode     string `json:"api_code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Topic       string `json:"topic"`
}
