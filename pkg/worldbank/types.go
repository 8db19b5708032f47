package worldbank

// CellKey addresses one (country, year) cell of a SparseTable. Country is the
// provider's display name for the country, which is what the reference catalog
// resolves against.
type CellKey struct {
	Country string
	Year    int
}

// SparseTable is the provider response reshaped as (country, year) cells, each
// holding one entry per indicator display name. A nil value records a data
// point the provider returned as null.
type SparseTable map[CellKey]map[string]*float64

// observation is one data point of a World Bank API v2 series response.
type observation struct {
	Indicator struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"indicator"`
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// pageMeta is the first element of a World Bank API v2 response array.
type pageMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}
