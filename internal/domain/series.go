package domain

// RawRecord is a single CPI observation as delivered by a source:
// the baseline file or the computation service. DateKey is the raw,
// possibly non-canonical key (a record filename or ISO tag).
type RawRecord struct {
	DateKey     string
	Value       float64
	Attribution map[Council]float64
}

// SeriesChannel carries one source's value for a point, plus the
// per-council attribution metadata when the source supplied it.
type SeriesChannel struct {
	Value       float64             `json:"value"`
	Attribution map[Council]float64 `json:"attribution,omitempty"`
}

// SeriesPoint is one entry of the merged composite series.
// A nil channel is a gap: the corresponding source had no record for
// this date. Gaps are preserved, never interpolated.
type SeriesPoint struct {
	Date       string         `json:"date"`
	Historical *SeriesChannel `json:"historical"`
	Simulated  *SeriesChannel `json:"simulated"`
}

// TimeSeries is an ordered sequence of SeriesPoints, strictly
// increasing by canonical date, with no duplicate dates.
type TimeSeries []SeriesPoint

// Dates returns the canonical date axis of the series.
func (ts TimeSeries) Dates() []string {
	dates := make([]string, len(ts))
	for i, p := range ts {
		dates[i] = p.Date
	}
	return dates
}

// EventMarker describes a fixed historical governance era or funding
// round. Static reference data, not derived from user input.
type EventMarker struct {
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	ColorTag  string `json:"colorTag"`
}

// Regime is a fixed historical percentage distribution in force over
// an inclusive canonical-date range. Used to attribute historical
// points that carry no attribution of their own.
type Regime struct {
	Start  string
	End    string
	Shares map[Council]float64
}

// Contains reports whether the canonical date falls inside the
// regime's inclusive range. Lexicographic comparison is valid because
// canonical dates are YYYY-MM-DD.
func (r Regime) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}
