// Package leadview derives the admin dashboard's filtered, sorted list and
// summary statistics from stored submissions. Every function is pure and the
// input slice is never modified.
package leadview

import (
	"slices"
	"sort"
	"strings"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
)

// SortKey names a sortable dashboard column.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByProfession SortKey = "profession"
	SortBySavings    SortKey = "savings"
	SortByDate       SortKey = "date"
)

// Direction is the sort order of the current column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Query holds the AND-composed filters. Empty fields match everything.
type Query struct {
	Text       string `form:"q"`
	Status     string `form:"status"`
	Profession string `form:"profession"`
}

// SortState is the current sort column and direction.
type SortState struct {
	Key SortKey   `json:"key"`
	Dir Direction `json:"dir"`
}

// DefaultSort lists newest submissions first.
var DefaultSort = SortState{Key: SortByDate, Dir: Desc}

func defaultDir(key SortKey) Direction {
	if key == SortByDate {
		return Desc
	}
	return Asc
}

// ParseSortKey returns the key for raw, or false when it is not sortable.
func ParseSortKey(raw string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortByName, SortByProfession, SortBySavings, SortByDate:
		return k, true
	case "monthlysavings", "monthly_savings":
		return SortBySavings, true
	}
	return "", false
}

// NewSortState parses query parameters, falling back to DefaultSort and to
// the key's default direction.
func NewSortState(key, dir string) SortState {
	k, ok := ParseSortKey(key)
	if !ok {
		return DefaultSort
	}
	st := SortState{Key: k, Dir: defaultDir(k)}
	switch Direction(strings.ToLower(dir)) {
	case Asc:
		st.Dir = Asc
	case Desc:
		st.Dir = Desc
	}
	return st
}

// Select is a click on a column header: the same key toggles direction, a new
// key starts at its default direction (date descending, others ascending).
func (s SortState) Select(key SortKey) SortState {
	if key == s.Key {
		if s.Dir == Asc {
			return SortState{Key: key, Dir: Desc}
		}
		return SortState{Key: key, Dir: Asc}
	}
	return SortState{Key: key, Dir: defaultDir(key)}
}

// Matches reports whether s passes every filter in q.
func (q Query) Matches(s lead.Submission) bool {
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		company := ""
		if s.Company != nil {
			company = *s.Company
		}
		if !strings.Contains(strings.ToLower(s.Name), text) &&
			!strings.Contains(strings.ToLower(s.Email), text) &&
			!strings.Contains(strings.ToLower(company), text) {
			return false
		}
	}
	if q.Status != "" && string(s.EffectiveStatus()) != q.Status {
		return false
	}
	if q.Profession != "" && s.Profession() != q.Profession {
		return false
	}
	return true
}

// Filter returns the submissions matching q, in source order.
func Filter(list []lead.Submission, q Query) []lead.Submission {
	out := make([]lead.Submission, 0, len(list))
	for _, s := range list {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Sort returns a sorted copy. Descending order is the exact reverse of ascending.
func Sort(list []lead.Submission, st SortState) []lead.Submission {
	out := slices.Clone(list)
	if out == nil {
		out = []lead.Submission{}
	}
	less := lessFor(st.Key)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if st.Dir == Desc {
		slices.Reverse(out)
	}
	return out
}

// Apply filters then sorts.
func Apply(list []lead.Submission, q Query, st SortState) []lead.Submission {
	return Sort(Filter(list, q), st)
}

func lessFor(key SortKey) func(a, b lead.Submission) bool {
	switch key {
	case SortByName:
		return func(a, b lead.Submission) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByProfession:
		return func(a, b lead.Submission) bool {
			return strings.ToLower(a.Profession()) < strings.ToLower(b.Profession())
		}
	case SortBySavings:
		return func(a, b lead.Submission) bool {
			return MonthlySavings(a) < MonthlySavings(b)
		}
	default:
		return func(a, b lead.Submission) bool { return a.CreatedAt < b.CreatedAt }
	}
}

// MonthlySavings is the estimated monthly savings in the submission's context, or 0.
func MonthlySavings(s lead.Submission) float64 {
	if s.Context == nil || s.Context.EstimatedSavingsEur == nil {
		return 0
	}
	return *s.Context.EstimatedSavingsEur
}
