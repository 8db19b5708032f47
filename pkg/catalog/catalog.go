// Package catalog loads the static country and indicator master lists and
// resolves provider display names to internal surrogate ids. A Catalog is
// built once per process and is immutable for the run; it is passed explicitly
// into the normalizer, the registry and the query layer.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/eed-project/eedx/pkg/db/models"
)

// Country is one row of the country master file. ID is assigned from file
// order, 1-based.
type Country struct {
	ID      int32  `json:"id"`
	APICode string `json:"api_code"`
	ISOCode string `json:"iso_code"`
	Name    string `json:"name"`
}

// Indicator is one row of the indicator master file. The ID comes from the
// file itself, not from load order.
type Indicator struct {
	ID          int64  `json:"id"`
	APICode     string `json:"api_code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Topic       string `json:"topic"`
}

// Catalog holds both master lists plus name lookups in each direction.
// Name matching is exact and case-sensitive, as provided by the external
// provider; the first occurrence of a duplicated name wins. The matching
// strategy is deliberately confined to this package.
type Catalog struct {
	countries  []Country
	indicators []Indicator

	countryByName   map[string]int32
	countryByID     map[int32]Country
	indicatorByName map[string]Indicator
	indicatorByID   map[int64]Indicator
}

// Load reads the two master CSV files. Both files carry a header row, which is
// skipped. Country ids are assigned in file order starting at 1.
//
// Country columns: provider code, ISO code, display name.
// Indicator columns: provider code, display name, id, description, source, topic.
func Load(countriesPath, indicatorsPath string) (*Catalog, error) {
	countryRows, err := readCSV(countriesPath)
	if err != nil {
		return nil, fmt.Errorf("load country master: %w", err)
	}
	indicatorRows, err := readCSV(indicatorsPath)
	if err != nil {
		return nil, fmt.Errorf("load indicator master: %w", err)
	}

	c := &Catalog{
		countryByName:   make(map[string]int32, len(countryRows)),
		countryByID:     make(map[int32]Country, len(countryRows)),
		indicatorByName: make(map[string]Indicator, len(indicatorRows)),
		indicatorByID:   make(map[int64]Indicator, len(indicatorRows)),
	}

	for i, row := range countryRows {
		if len(row) < 3 {
			return nil, fmt.Errorf("country master row %d: want 3 columns, got %d", i+2, len(row))
		}
		country := Country{
			ID:      int32(i + 1),
			APICode: row[0],
			ISOCode: row[1],
			Name:    row[2],
		}
		c.countries = append(c.countries, country)
		c.countryByID[country.ID] = country
		if _, dup := c.countryByName[country.Name]; !dup {
			c.countryByName[country.Name] = country.ID
		}
	}

	for i, row := range indicatorRows {
		if len(row) < 6 {
			return nil, fmt.Errorf("indicator master row %d: want 6 columns, got %d", i+2, len(row))
		}
		id, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("indicator master row %d: bad id %q: %w", i+2, row[2], err)
		}
		ind := Indicator{
			ID:          id,
			APICode:     row[0],
			Name:        row[1],
			Description: row[3],
			Source:      row[4],
			Topic:       row[5],
		}
		c.indicators = append(c.indicators, ind)
		c.indicatorByID[ind.ID] = ind
		if _, dup := c.indicatorByName[ind.Name]; !dup {
			c.indicatorByName[ind.Name] = ind
		}
	}

	return c, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	return rows[1:], nil
}

// ResolveCountry maps a provider display name to its internal id.
func (c *Catalog) ResolveCountry(name string) (int32, bool) {
	id, ok := c.countryByName[name]
	return id, ok
}

// ResolveIndicator maps a provider display name to the full indicator record.
func (c *Catalog) ResolveIndicator(name string) (Indicator, bool) {
	ind, ok := c.indicatorByName[name]
	return ind, ok
}

// Country returns the full record for an internal country id.
func (c *Catalog) Country(id int32) (Country, bool) {
	country, ok := c.countryByID[id]
	return country, ok
}

// Indicator returns the full record for an indicator id.
func (c *Catalog) Indicator(id int64) (Indicator, bool) {
	ind, ok := c.indicatorByID[id]
	return ind, ok
}

// Countries returns the country master in file order.
func (c *Catalog) Countries() []Country { return c.countries }

// Indicators returns the indicator master in file order.
func (c *Catalog) Indicators() []Indicator { return c.indicators }

// CountryCodes returns the provider codes of all countries, in file order.
func (c *Catalog) CountryCodes() []string {
	codes := make([]string, len(c.countries))
	for i, country := range c.countries {
		codes[i] = country.APICode
	}
	return codes
}

// MasterCountries returns the country master as store rows.
func (c *Catalog) MasterCountries() []models.Country {
	rows := make([]models.Country, len(c.countries))
	for i, country := range c.countries {
		rows[i] = models.Country{ID: country.ID, Name: country.Name, ISOCode: country.ISOCode}
	}
	return rows
}
