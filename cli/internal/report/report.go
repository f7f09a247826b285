// ABOUTME: Grade and absence statistics computed from gateway data
// ABOUTME: Term assignment, per-subject averages, school-day calendar and absence limits

package report

import (
	"math"
	"sort"
	"time"

	"github.com/markalston/classeviva-gateway/cli/internal/client"
)

// Event codes used by the absences endpoint.
const (
	CodeAbsence   = "ABA0"
	CodeLateEntry = "ABR0"
	CodeEarlyExit = "ABU0"
)

const (
	excludedColor  = "blue"
	unknownSubject = "N/A"
)

// AbsenceLimitRatio is the share of school days a student may miss.
const AbsenceLimitRatio = 0.25

// Term returns 1 for dates from September to January, 2 for February to June,
// and 0 for summer months or an unparseable date.
func Term(date string) int {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	switch m := d.Month(); {
	case m >= time.September || m == time.January:
		return 1
	case m >= time.February && m <= time.June:
		return 2
	default:
		return 0
	}
}

// SubjectAverage holds the averages for one subject.
type SubjectAverage struct {
	Subject      string  `json:"subject"`
	Count        int     `json:"count"`
	Average      float64 `json:"average"`
	Term1Count   int     `json:"term1_count"`
	Term1Average float64 `json:"term1_average"`
	Term2Count   int     `json:"term2_count"`
	Term2Average float64 `json:"term2_average"`
}

// GradeSummary is the result of GradeReport.
type GradeSummary struct {
	Subjects     []SubjectAverage `json:"subjects"`
	Count        int              `json:"count"`
	SubjectCount int              `json:"subject_count"`
	Average      float64          `json:"average"`
	Term1Count   int              `json:"term1_count"`
	Term1Average float64          `json:"term1_average"`
	Term2Count   int              `json:"term2_count"`
	Term2Average float64          `json:"term2_average"`
	Distribution map[int]int      `json:"distribution"`
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Counts reports whether a grade contributes to averages. Blue marks and
// marks without a positive numeric value do not.
func Counts(g client.Grade) bool {
	return g.Color != excludedColor && g.DecimalValue != nil && *g.DecimalValue > 0
}

// Subject names the grade's subject. Only a missing subjectDesc falls back to
// "N/A"; an empty one is kept as is.
func Subject(g client.Grade) string {
	if g.SubjectDesc == nil {
		return unknownSubject
	}
	return *g.SubjectDesc
}

// GradeReport computes per-subject and overall averages. Subjects are ordered
// by average, highest first, then by name.
func GradeReport(grades []client.Grade) GradeSummary {
	type subjectAcc struct {
		all, t1, t2 accumulator
	}

	var (
		all, t1, t2 accumulator
		subjects    = make(map[string]*subjectAcc)
		dist        = make(map[int]int)
	)

	for _, g := range grades {
		if !Counts(g) {
			continue
		}
		v := *g.DecimalValue

		name := Subject(g)
		s, ok := subjects[name]
		if !ok {
			s = &subjectAcc{}
			subjects[name] = s
		}

		all.add(v)
		s.all.add(v)
		switch Term(g.EvtDate) {
		case 1:
			t1.add(v)
			s.t1.add(v)
		case 2:
			t2.add(v)
			s.t2.add(v)
		}

		dist[int(math.RoundToEven(v))]++
	}

	summary := GradeSummary{
		Subjects:     make([]SubjectAverage, 0, len(subjects)),
		Count:        all.count,
		SubjectCount: len(subjects),
		Average:      all.mean(),
		Term1Count:   t1.count,
		Term1Average: t1.mean(),
		Term2Count:   t2.count,
		Term2Average: t2.mean(),
		Distribution: dist,
	}

	for name, s := range subjects {
		summary.Subjects = append(summary.Subjects, SubjectAverage{
			Subject:      name,
			Count:        s.all.count,
			Average:      s.all.mean(),
			Term1Count:   s.t1.count,
			Term1Average: s.t1.mean(),
			Term2Count:   s.t2.count,
			Term2Average: s.t2.mean(),
		})
	}
	sort.Slice(summary.Subjects, func(i, j int) bool {
		a, b := summary.Subjects[i], summary.Subjects[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.Subject < b.Subject
	})

	return summary
}

// SchoolYear is the lesson calendar containing a given instant.
type SchoolYear struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Total     int       `json:"total_days"`
	Elapsed   int       `json:"elapsed_days"`
	Remaining int       `json:"remaining_days"`
}

type monthDay struct {
	month time.Month
	day   int
}

var holidays = map[monthDay]bool{
	{time.November, 1}:  true,
	{time.December, 8}:  true,
	{time.December, 25}: true,
	{time.December, 26}: true,
	{time.January, 1}:   true,
	{time.January, 6}:   true,
	{time.April, 25}:    true,
	{time.May, 1}:       true,
	{time.June, 2}:      true,
}

// IsSchoolDay reports whether lessons are held on d. Weekends, fixed holidays,
// the Christmas break (Dec 23 to Jan 6) and an approximate Easter break
// (Apr 10 to Apr 17) are excluded.
func IsSchoolDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	m, day := d.Month(), d.Day()
	if holidays[monthDay{m, day}] {
		return false
	}
	if (m == time.December && day >= 23) || (m == time.January && day <= 6) {
		return false
	}
	if m == time.April && day >= 10 && day <= 17 {
		return false
	}
	return true
}

// SchoolDays counts the school days of the year (Sep 1 to Jun 30) containing
// now. In July and August the year that just ended is used. A day counts as
// elapsed once it has started.
func SchoolDays(now time.Time) SchoolYear {
	loc := now.Location()
	startYear := now.Year()
	if now.Month() < time.September {
		startYear--
	}

	year := SchoolYear{
		Start: time.Date(startYear, time.September, 1, 0, 0, 0, 0, loc),
		End:   time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, loc),
	}

	for d := year.Start; !d.After(year.End); d = d.AddDate(0, 0, 1) {
		if !IsSchoolDay(d) {
			continue
		}
		year.Total++
		if !d.After(now) {
			year.Elapsed++
		}
	}
	year.Remaining = year.Total - year.Elapsed

	return year
}

// AbsenceSummary is the result of AbsenceReport.
type AbsenceSummary struct {
	Absences    int `json:"absences"`
	LateEntries int `json:"late_entries"`
	EarlyExits  int `json:"early_exits"`

	// Limit is the maximum number of absences; Remaining goes negative once
	// it is exceeded.
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	AbsencePercent     float64    `json:"absence_percent"`
	LimitUsedPercent   float64    `json:"limit_used_percent"`
	YearElapsedPercent float64    `json:"year_elapsed_percent"`
	SchoolYear         SchoolYear `json:"school_year"`
}

// AbsenceReport counts events by code and compares absences against the
// yearly limit.
func AbsenceReport(events []client.AbsenceEvent, now time.Time) AbsenceSummary {
	var s AbsenceSummary
	for _, e := range events {
		switch e.EvtCode {
		case CodeAbsence:
			s.Absences++
		case CodeLateEntry:
			s.LateEntries++
		case CodeEarlyExit:
			s.EarlyExits++
		}
	}

	s.SchoolYear = SchoolDays(now)
	s.Limit = int(float64(s.SchoolYear.Total) * AbsenceLimitRatio)
	s.Remaining = s.Limit - s.Absences
	s.AbsencePercent = percent(s.Absences, s.SchoolYear.Elapsed)
	s.LimitUsedPercent = percent(s.Absences, s.Limit)
	s.YearElapsedPercent = percent(s.SchoolYear.Elapsed, s.SchoolYear.Total)

	return s
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
