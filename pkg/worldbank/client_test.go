package worldbank

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func page(pages int, observations string) string {
	return fmt.Sprintf(`[{"page":1,"pages":%d,"per_page":1000,"total":0},[%s]]`, pages, observations)
}

func obs(indicator, country, date, value string) string {
	return fmt.Sprintf(`{"indicator":{"id":"X","value":%q},"country":{"id":"Y","value":%q},"countryiso3code":"YYY","date":%q,"value":%s}`,
		indicator, country, date, value)
}

func TestFetchBuildsSparseTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		// inclusive provider span for an exclusive [2010, 2013) request
		assert.Equal(t, "2010:2012", r.URL.Query().Get("date"))

		fmt.Fprint(w, page(1,
			obs("Population, total", "Algeria", "2010", "100")+","+
				obs("Population, total", "Algeria", "2011", "110")+","+
				obs("Population, total", "Angola", "2010", "null")))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL))
	table, err := c.Fetch(context.Background(), []string{"SP.POP.TOTL"}, []string{"DZA", "AGO"}, 2010, 2013)
	require.NoError(t, err)

	require.Len(t, table, 3)

	cell := table[CellKey{Country: "Algeria", Year: 2010}]
	require.NotNil(t, cell)
	require.NotNil(t, cell["Population, total"])
	assert.Equal(t, 100.0, *cell["Population, total"])

	// null data point survives as a nil entry (distinct from absent)
	nullCell := table[CellKey{Country: "Angola", Year: 2010}]
	require.Contains(t, nullCell, "Population, total")
	assert.Nil(t, nullCell["Population, total"])
}

func TestFetchPaginates(t *testing.T) {
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, p)
		switch p {
		case "1":
			fmt.Fprint(w, `[{"page":1,"pages":2,"per_page":1,"total":2},[`+
				obs("GDP (current US$)", "Benin", "2010", "1")+`]]`)
		default:
			fmt.Fprint(w, `[{"page":2,"pages":2,"per_page":1,"total":2},[`+
				obs("GDP (current US$)", "Benin", "2011", "2")+`]]`)
		}
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL), WithPerPage(1))
	table, err := c.Fetch(context.Background(), []string{"NY.GDP.MKTP.CD"}, []string{"BEN"}, 2010, 2012)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pagesServed)
	assert.Len(t, table, 2)
	assert.Equal(t, 2.0, *table[CellKey{Country: "Benin", Year: 2011}]["GDP (current US$)"])
}

func TestFetchSkipsSubAnnualDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page(1,
			obs("GDP (current US$)", "Benin", "2015Q3", "5")+","+
				obs("GDP (current US$)", "Benin", "2015", "7")))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL))
	table, err := c.Fetch(context.Background(), []string{"NY.GDP.MKTP.CD"}, []string{"BEN"}, 2010, 2020)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.Equal(t, 7.0, *table[CellKey{Country: "Benin", Year: 2015}]["GDP (current US$)"])
}

func TestFetchMergesIndicatorsIntoOneCell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the URL path carries /indicator/{code}
		if r.URL.Path == "/country/DZA/indicator/SP.POP.TOTL" {
			fmt.Fprint(w, page(1, obs("Population, total", "Algeria", "2010", "100")))
			return
		}
		fmt.Fprint(w, page(1, obs("GDP (current US$)", "Algeria", "2010", "9.5")))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL))
	table, err := c.Fetch(context.Background(),
		[]string{"SP.POP.TOTL", "NY.GDP.MKTP.CD"}, []string{"DZA"}, 2010, 2011)
	require.NoError(t, err)

	require.Len(t, table, 1)
	cell := table[CellKey{Country: "Algeria", Year: 2010}]
	assert.Len(t, cell, 2)
	assert.Equal(t, 100.0, *cell["Population, total"])
	assert.Equal(t, 9.5, *cell["GDP (current US$)"])
}

func TestFetchFailsWholeOnProviderError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/country/DZA/indicator/BAD.CODE" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, page(1, obs("Population, total", "Algeria", "2010", "100")))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL), WithWorkers(1))
	_, err := c.Fetch(context.Background(),
		[]string{"SP.POP.TOTL", "BAD.CODE"}, []string{"DZA"}, 2010, 2011)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestFetchRejectsBadYearRange(t *testing.T) {
	c := NewClient(zap.NewNop())

	tests := []struct {
		name  string
		start int
		end   int
	}{
		{"zero start", 0, 2010},
		{"end equals start", 2010, 2010},
		{"end before start", 2015, 2010},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Fetch(context.Background(), []string{"X"}, []string{"Y"}, tt.start, tt.end)
			assert.ErrorIs(t, err, ErrProvider)
		})
	}
}

func TestFetchRejectsEmptyRequest(t *testing.T) {
	c := NewClient(zap.NewNop())

	_, err := c.Fetch(context.Background(), nil, []string{"DZA"}, 2010, 2011)
	assert.ErrorIs(t, err, ErrProvider)

	_, err = c.Fetch(context.Background(), []string{"X"}, nil, 2010, 2011)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestFetchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"not an array"}`)
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), []string{"X"}, []string{"DZA"}, 2010, 2011)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestFetchSingleElementResponse(t *testing.T) {
	// error responses from the provider come back as a one element array
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"message":[{"id":"120","key":"Invalid value"}]}]`)
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), []string{"X"}, []string{"DZA"}, 2010, 2011)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestWithWorkersIgnoresNonPositive(t *testing.T) {
	c := NewClient(zap.NewNop(), WithWorkers(0))
	assert.Equal(t, defaultWorkers, c.workers)

	c = NewClient(zap.NewNop(), WithWorkers(8))
	assert.Equal(t, 8, c.workers)
}
