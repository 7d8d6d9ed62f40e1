package annotation

import "github.com/cpisim/cpisim-backend/internal/domain"

// Color tags understood by the presentation layer.
const (
	ColorTagRPGF   = "rpgf"
	ColorTagSeason = "season"
)

// eventMarkers is the fixed list of funding rounds and governance
// seasons overlaid on the series, positioned at their start dates.
var eventMarkers = []domain.EventMarker{
	{Label: "RPGF Round 2", StartDate: "2022-01-06", EndDate: "2023-03-30", ColorTag: ColorTagRPGF},
	{Label: "RPGF Round 3", StartDate: "2023-10-14", EndDate: "2024-01-11", ColorTag: ColorTagRPGF},
	{Label: "RPGF Round 4", StartDate: "2024-06-03", EndDate: "2024-01-11", ColorTag: ColorTagRPGF},
	{Label: "Season 3", StartDate: "2023-01-26", EndDate: "2023-04-05", ColorTag: ColorTagSeason},
	{Label: "Season 4", StartDate: "2023-06-08", EndDate: "2023-09-20", ColorTag: ColorTagSeason},
	{Label: "Season 5", StartDate: "2024-01-04", EndDate: "2024-12-31", ColorTag: ColorTagSeason},
	{Label: "Season 6", StartDate: "2024-06-27", EndDate: "2024-12-31", ColorTag: ColorTagSeason},
}

// regimes is the fixed table of historical percentage distributions,
// keyed by inclusive canonical-date ranges. Each era lists only the
// councils active during it. Overlapping ranges are not expected; if
// they occur, the first matching entry in table order wins.
var regimes = []domain.Regime{
	{
		Start: "2022-01-01", End: "2023-01-25",
		Shares: map[domain.Council]float64{
			domain.CouncilTokenHouse:   60.00,
			domain.CouncilCitizenHouse: 40.00,
		},
	},
	{
		Start: "2023-01-26", End: "2023-06-07",
		Shares: map[domain.Council]float64{
			domain.CouncilTokenHouse:         41.18,
			domain.CouncilCitizenHouse:       33.41,
			domain.CouncilGrantsCouncil:      17.23,
			domain.CouncilGrantsSubcommittee: 8.18,
		},
	},
	{
		Start: "2023-06-08", End: "2024-01-03",
		Shares: map[domain.Council]float64{
			domain.CouncilTokenHouse:         36.42,
			domain.CouncilCitizenHouse:       31.88,
			domain.CouncilGrantsCouncil:      12.15,
			domain.CouncilGrantsSubcommittee: 4.55,
			domain.CouncilCodeOfConduct:      8.12,
			domain.CouncilDevAdvisoryBoard:   6.88,
		},
	},
	{
		Start: "2024-01-04", End: "2024-06-26",
		Shares: map[domain.Council]float64{
			domain.CouncilTokenHouse:         32.33,
			domain.CouncilCitizenHouse:       34.59,
			domain.CouncilGrantsCouncil:      10.15,
			domain.CouncilGrantsSubcommittee: 2.82,
			domain.CouncilSecurityCouncil:    12.78,
			domain.CouncilCodeOfConduct:      4.32,
			domain.CouncilDevAdvisoryBoard:   3.01,
		},
	},
	{
		Start: "2024-06-27", End: "2024-12-31",
		Shares: map[domain.Council]float64{
			domain.CouncilTokenHouse:         30.11,
			domain.CouncilCitizenHouse:       33.25,
			domain.CouncilGrantsCouncil:      11.02,
			domain.CouncilGrantsSubcommittee: 3.17,
			domain.CouncilSecurityCouncil:    14.05,
			domain.CouncilCodeOfConduct:      4.89,
			domain.CouncilDevAdvisoryBoard:   3.51,
		},
	},
}

// Builder derives presentation metadata for a merged series: fixed
// event-marker overlays and per-point active-council attribution.
type Builder struct {
	markers []domain.EventMarker
	regimes []domain.Regime
}

// NewBuilder creates a Builder carrying the static reference data.
func NewBuilder() *Builder {
	return &Builder{markers: eventMarkers, regimes: regimes}
}

// Markers returns the full event-marker list. Callers must not mutate
// the returned slice.
func (b *Builder) Markers() []domain.EventMarker {
	return b.markers
}

// Overlay returns the markers whose start dates fall inside the span
// of the given canonical date axis. An empty axis yields no markers.
func (b *Builder) Overlay(axis []string) []domain.EventMarker {
	if len(axis) == 0 {
		return nil
	}
	first, last := axis[0], axis[len(axis)-1]

	markers := make([]domain.EventMarker, 0, len(b.markers))
	for _, m := range b.markers {
		if m.StartDate >= first && m.StartDate <= last {
			markers = append(markers, m)
		}
	}
	return markers
}

// HistoricalShares looks up the regime in force on the given canonical
// date. The second return is false when no regime matches, which is
// not an error: the point simply carries no attribution.
func (b *Builder) HistoricalShares(date string) (map[domain.Council]float64, bool) {
	for _, r := range b.regimes {
		if r.Contains(date) {
			return r.Shares, true
		}
	}
	return nil, false
}

// Annotate attaches attribution metadata to the series in place.
// Simulated channels without attribution of their own get the
// percentages supplied at submission time; historical channels without
// attribution get the regime table lookup. A point matching no regime
// simply stays unattributed. The annotated series is returned for
// convenience.
func (b *Builder) Annotate(series domain.TimeSeries, submitted map[domain.Council]float64) domain.TimeSeries {
	for _, p := range series {
		if p.Historical != nil && p.Historical.Attribution == nil {
			if shares, ok := b.HistoricalShares(p.Date); ok {
				p.Historical.Attribution = shares
			}
		}
		if p.Simulated != nil && p.Simulated.Attribution == nil && submitted != nil {
			p.Simulated.Attribution = submitted
		}
	}
	return series
}
