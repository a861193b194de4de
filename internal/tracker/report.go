package tracker

import (
	"context"
	"math"
	"sort"
)

// StatusCounts tallies one subject's attendance rows. Rows with a status
// outside the known set still count toward Total.
type StatusCounts struct {
	Attended    int `json:"attended"`
	NotAttended int `json:"not_attended"`
	Cancelled   int `json:"cancelled"`
	Total       int `json:"total"`
}

// PieStats is the Attended / Not Attended breakdown with Cancelled excluded
// from both counts and denominator.
type PieStats struct {
	Attended    int `json:"attended"`
	NotAttended int `json:"not_attended"`
}

// MonthlyStats aggregates attendance by calendar month plus per-subject bar
// totals and the current month's subset.
type MonthlyStats struct {
	BarLabels      []string `json:"bar_labels"`
	TotalCounts    []int    `json:"total_counts"`
	AttendedCounts []int    `json:"attended_counts"`
	Months         []string `json:"months"`
	Percentages    []int    `json:"percentages"`
	MonthConducted int      `json:"month_conducted"`
	MonthAttended  int      `json:"month_attended"`
	MonthCancelled int      `json:"month_cancelled"`
	MonthHasData   bool     `json:"month_has_data"`
}

// Prediction is the forward-looking attendance estimate for the current month.
type Prediction struct {
	Percent   int `json:"percent"`
	Conducted int `json:"conducted"`
	Attended  int `json:"attended"`
	Missed    int `json:"missed"`
}

// Dashboard is the complete aggregated view model.
type Dashboard struct {
	SubjectStats map[string]StatusCounts `json:"subject_stats"`
	Pie          PieStats                `json:"pie_stats"`
	HasData      bool                    `json:"has_data"`
	Monthly      MonthlyStats            `json:"monthly"`
	Prediction   Prediction              `json:"prediction"`
}

// roundPct converts a ratio to an integer percentage, rounding half away from
// zero.
func roundPct(attended, conducted int) int {
	if conducted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(attended) / float64(conducted)))
}

// SubjectStats groups all attendance rows by subject name and computes the
// global pie breakdown. hasData is true when at least one non-cancelled row
// exists.
func (s *Service) SubjectStats(ctx context.Context) (map[string]StatusCounts, PieStats, bool, error) {
	rows, err := s.repo.AllRows(ctx)
	if err != nil {
		return nil, PieStats{}, false, err
	}
	stats := make(map[string]StatusCounts)
	var pie PieStats
	for _, row := range rows {
		c := stats[row.Subject]
		c.Total++
		switch row.Status {
		case StatusAttended:
			c.Attended++
			pie.Attended++
		case StatusNotAttended:
			c.NotAttended++
			pie.NotAttended++
		case StatusCancelled:
			c.Cancelled++
		}
		stats[row.Subject] = c
	}
	hasData := pie.Attended+pie.NotAttended > 0
	return stats, pie, hasData, nil
}

// Monthly groups all attendance rows by "YYYY-MM" month and by subject. The
// current-month subset is keyed off the service clock. Months and bar labels
// come out in ascending order.
func (s *Service) Monthly(ctx context.Context) (MonthlyStats, error) {
	rows, err := s.repo.AllRows(ctx)
	if err != nil {
		return MonthlyStats{}, err
	}

	type monthCounts struct{ conducted, attended, cancelled int }
	type barCounts struct{ total, attended int }
	byMonth := make(map[string]monthCounts)
	bySubject := make(map[string]barCounts)

	for _, row := range rows {
		b := bySubject[row.Subject]
		b.total++
		if row.Status == StatusAttended {
			b.attended++
		}
		bySubject[row.Subject] = b

		if len(row.Date) < 7 {
			continue
		}
		key := row.Date[:7]
		m := byMonth[key]
		switch row.Status {
		case StatusCancelled:
			m.cancelled++
		case StatusAttended:
			m.conducted++
			m.attended++
		default:
			m.conducted++
		}
		byMonth[key] = m
	}

	var out MonthlyStats
	for _, subject := range sortedKeys(bySubject) {
		out.BarLabels = append(out.BarLabels, subject)
		out.TotalCounts = append(out.TotalCounts, bySubject[subject].total)
		out.AttendedCounts = append(out.AttendedCounts, bySubject[subject].attended)
	}
	for _, month := range sortedKeys(byMonth) {
		m := byMonth[month]
		out.Months = append(out.Months, month)
		out.Percentages = append(out.Percentages, roundPct(m.attended, m.conducted))
	}

	current := byMonth[s.now().Format("2006-01")]
	out.MonthConducted = current.conducted
	out.MonthAttended = current.attended
	out.MonthCancelled = current.cancelled
	out.MonthHasData = current.conducted > 0
	return out, nil
}

// Predict queries the current month's conducted and attended counts directly
// against the store. With no classes held yet the estimate is an optimistic
// 100 percent.
func (s *Service) Predict(ctx context.Context) (Prediction, error) {
	month := s.now().Format("2006-01")
	conducted, attended, err := s.repo.MonthCounts(ctx, month)
	if err != nil {
		return Prediction{}, err
	}
	p := Prediction{Conducted: conducted, Attended: attended, Percent: 100}
	if conducted > 0 {
		p.Percent = roundPct(attended, conducted)
	}
	if missed := conducted - attended; missed > 0 {
		p.Missed = missed
	}
	return p, nil
}

// BuildDashboard composes the three reports into one view model.
func (s *Service) BuildDashboard(ctx context.Context) (Dashboard, error) {
	stats, pie, hasData, err := s.SubjectStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	monthly, err := s.Monthly(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	prediction, err := s.Predict(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		SubjectStats: stats,
		Pie:          pie,
		HasData:      hasData || monthly.MonthHasData,
		Monthly:      monthly,
		Prediction:   prediction,
	}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
