// Package normalize flattens a provider sparse table into fact records,
// resolving provider names to internal ids through the reference catalog.
package normalize

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/catalog"
	"github.com/eed-project/eedx/pkg/db/models"
	"github.com/eed-project/eedx/pkg/worldbank"
)

// Result carries the outcome of one normalization pass. Facts hold every
// resolvable (country, indicator, year) triple; Unresolved lists the distinct
// provider country names that failed catalog resolution, sorted.
type Result struct {
	Facts      []models.Fact
	Unresolved []string
}

// Normalize walks every (country, year) cell of the sparse table. A cell whose
// country name cannot be resolved is dropped whole: none of its indicators
// produce facts, and the name is recorded once in Unresolved. For resolved
// cells, one fact is emitted per catalog indicator; a missing entry, a null
// value or a NaN all normalize to zero. Indicator resolution cannot fail here
// because facts are keyed by the catalog's own indicator list.
func Normalize(table worldbank.SparseTable, cat *catalog.Catalog, logger *zap.Logger) Result {
	keys := make([]worldbank.CellKey, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Country != keys[j].Country {
			return keys[i].Country < keys[j].Country
		}
		return keys[i].Year < keys[j].Year
	})

	indicators := cat.Indicators()
	unresolvedSet := make(map[string]struct{})
	facts := make([]models.Fact, 0, len(keys)*len(indicators))

	for _, key := range keys {
		countryID, ok := cat.ResolveCountry(key.Country)
		if !ok {
			unresolvedSet[key.Country] = struct{}{}
			continue
		}

		cell := table[key]
		for _, ind := range indicators {
			value := 0.0
			if v, present := cell[ind.Name]; present && v != nil && !math.IsNaN(*v) {
				value = *v
			}
			facts = append(facts, models.Fact{
				IndicatorID: ind.ID,
				CountryID:   countryID,
				Year:        key.Year,
				Value:       value,
				APICode:     ind.APICode,
				Name:        ind.Name,
				Description: ind.Description,
				Source:      ind.Source,
				Topic:       ind.Topic,
			})
		}
	}

	unresolved := make([]string, 0, len(unresolvedSet))
	for name := range unresolvedSet {
		unresolved = append(unresolved, name)
	}
	sort.Strings(unresolved)

	if len(unresolved) > 0 {
		logger.Warn("countries failed catalog resolution",
			zap.Int("count", len(unresolved)),
			zap.Strings("names", unresolved))
	}

	return Result{Facts: facts, Unresolved: unresolved}
}
