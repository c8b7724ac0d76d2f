package lineup

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the full set of valid lineups a search found.
type Summary struct {
	Count                 int     `json:"count"`
	TopProjectedPoints    float64 `json:"top_projected_points"`
	TopSpend              int     `json:"top_spend"`
	MeanProjectedPoints   float64 `json:"mean_projected_points"`
	MedianProjectedPoints float64 `json:"median_projected_points"`
	StdDevProjectedPoints float64 `json:"stddev_projected_points"`
	MinProjectedPoints    float64 `json:"min_projected_points"`
}

// Rank sorts lineups best first: projected points descending, then the
// cheaper lineup, then by player set and build order.
func Rank(lineups []Lineup) {
	sort.SliceStable(lineups, func(i, j int) bool {
		a, b := lineups[i], lineups[j]
		if a.ProjectedPoints != b.ProjectedPoints {
			return a.ProjectedPoints > b.ProjectedPoints
		}
		if a.TotalSalary != b.TotalSalary {
			return a.TotalSalary < b.TotalSalary
		}
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return slices.Compare(a.path, b.path) < 0
	})
}

// Summarize reports counts and projected-point statistics for lineups, which
// must already be ranked.
func Summarize(lineups []Lineup) Summary {
	if len(lineups) == 0 {
		return Summary{}
	}

	points := make([]float64, len(lineups))
	for i, l := range lineups {
		points[i] = l.ProjectedPoints
	}
	sort.Float64s(points)

	summary := Summary{
		Count:                 len(lineups),
		TopProjectedPoints:    lineups[0].ProjectedPoints,
		TopSpend:              lineups[0].TotalSalary,
		MeanProjectedPoints:   stat.Mean(points, nil),
		MedianProjectedPoints: stat.Quantile(0.5, stat.Empirical, points, nil),
		MinProjectedPoints:    points[0],
	}
	// StdDev is the sample deviation and undefined for a single lineup.
	if len(points) > 1 {
		summary.StdDevProjectedPoints = stat.StdDev(points, nil)
	}
	return summary
}

// PlayerValue is one row of a value report.
type PlayerValue struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Role            string  `json:"position"`
	Cost            int     `json:"salary"`
	ProjectedPoints float64 `json:"avg_points"`
	Value           float64 `json:"value"`
}

// ValueReport lists players from the best value (lowest cost per point) to
// the worst.
func ValueReport(players []Player) []PlayerValue {
	out := make([]PlayerValue, len(players))
	for i, p := range players {
		out[i] = PlayerValue{
			ID:              p.ID,
			Name:            p.Name,
			Role:            p.Role,
			Cost:            p.Cost,
			ProjectedPoints: p.ProjectedPoints,
			Value:           p.Value,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].ID < out[j].ID
	})
	return out
}
