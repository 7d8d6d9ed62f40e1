package reconciler

import (
	"sort"

	"github.com/cpisim/cpisim-backend/internal/domain"
	"github.com/cpisim/cpisim-backend/internal/usecase/datekey"
)

// Merge combines the historical and simulated CPI records into one
// ordered, gap-tolerant composite series keyed by canonical date.
// Logic:
//  1. Canonicalize every record's date key; discard records whose
//     canonical key is empty
//  2. Union the canonical keys of both sources, sorted ascending
//     lexicographically (valid because canonical form is YYYY-MM-DD)
//  3. For each key, look up the matching record in each source
//     independently; when a source carries duplicate keys, the first
//     match in original order wins
//  4. Emit one point per key with the historical and simulated values
//     as two parallel channels, each retaining its own attribution
//
// Output length equals the number of distinct canonical keys across
// both inputs. Gaps stay nil rather than interpolated; gap display
// policy belongs downstream.
func Merge(historical, simulated []domain.RawRecord) domain.TimeSeries {
	hist := indexByDate(historical)
	sim := indexByDate(simulated)

	keys := make([]string, 0, len(hist)+len(sim))
	seen := make(map[string]bool, len(hist)+len(sim))
	for key := range hist {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for key := range sim {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	series := make(domain.TimeSeries, 0, len(keys))
	for _, key := range keys {
		point := domain.SeriesPoint{Date: key}
		if rec, ok := hist[key]; ok {
			point.Historical = &domain.SeriesChannel{Value: rec.Value, Attribution: rec.Attribution}
		}
		if rec, ok := sim[key]; ok {
			point.Simulated = &domain.SeriesChannel{Value: rec.Value, Attribution: rec.Attribution}
		}
		series = append(series, point)
	}

	return series
}

// indexByDate maps canonical date to the first record carrying it.
// Records whose key canonicalizes to "" are dropped.
func indexByDate(records []domain.RawRecord) map[string]domain.RawRecord {
	index := make(map[string]domain.RawRecord, len(records))
	for _, rec := range records {
		key := datekey.Canonicalize(rec.DateKey)
		if key == "" {
			continue
		}
		if _, ok := index[key]; ok {
			// First match by original order wins.
			continue
		}
		index[key] = rec
	}
	return index
}
