package leadview

import "github.com/AtRiskMedia/praxis/internal/domain/lead"

// Stats summarises a list of submissions. Averages only consider submissions
// where the value is present and are nil when no submission has it.
type Stats struct {
	Total                 int                 `json:"total"`
	ByStatus              map[lead.Status]int `json:"byStatus"`
	ByProfession          map[string]int      `json:"byProfession"`
	AverageMonthlySavings *float64            `json:"averageMonthlySavings"`
	SavingsSamples        int                 `json:"savingsSamples"`
	AverageCompletedDemos *float64            `json:"averageCompletedDemos"`
	DemoSamples           int                 `json:"demoSamples"`
}

// ComputeStats derives Stats from list.
func ComputeStats(list []lead.Submission) Stats {
	st := Stats{
		Total:        len(list),
		ByStatus:     make(map[lead.Status]int, len(lead.Statuses)),
		ByProfession: map[string]int{},
	}
	for _, s := range lead.Statuses {
		st.ByStatus[s] = 0
	}

	var savingsSum float64
	var demoSum int
	for _, s := range list {
		st.ByStatus[s.EffectiveStatus()]++
		if p := s.Profession(); p != "" {
			st.ByProfession[p]++
		}
		if s.Context == nil {
			continue
		}
		if s.Context.EstimatedSavingsEur != nil {
			savingsSum += *s.Context.EstimatedSavingsEur
			st.SavingsSamples++
		}
		if s.Context.CompletedDemosKnown() {
			demoSum += s.Context.CompletedDemoCount()
			st.DemoSamples++
		}
	}

	if st.SavingsSamples > 0 {
		avg := savingsSum / float64(st.SavingsSamples)
		st.AverageMonthlySavings = &avg
	}
	if st.DemoSamples > 0 {
		avg := float64(demoSum) / float64(st.DemoSamples)
		st.AverageCompletedDemos = &avg
	}
	return st
}
