package portfolio

import (
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// KPIs are the headline numbers of the dashboard.
type KPIs struct {
	TotalProjects    int      `json:"total_projects"`
	TotalInvestment  float64  `json:"total_investment"`
	ActiveProjects   int      `json:"active_projects"`
	CountriesCount   int      `json:"countries_count"`
	DFIPartnersCount int      `json:"dfi_partners_count"`
	AvgIRR           *float64 `json:"avg_irr"`
}

// ComputeKPIs summarises projects. models may hold any number of financial
// models per project; only the most recent one of each project with an IRR
// counts towards AvgIRR.
func ComputeKPIs(projects []model.Project, models []model.FinancialModel) KPIs {
	k := KPIs{TotalProjects: len(projects)}

	countries := map[string]struct{}{}
	partners := map[string]struct{}{}
	inPortfolio := make(map[uuid.UUID]struct{}, len(projects))
	for _, p := range projects {
		inPortfolio[p.ID] = struct{}{}
		k.TotalInvestment += p.Investment()
		if p.Status == model.ProjectStatusActive {
			k.ActiveProjects++
		}
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
		for _, name := range p.Partners() {
			if name != "" {
				partners[name] = struct{}{}
			}
		}
	}
	k.CountriesCount = len(countries)
	k.DFIPartnersCount = len(partners)

	latest := map[uuid.UUID]model.FinancialModel{}
	for _, m := range models {
		if _, ok := inPortfolio[m.ProjectID]; !ok {
			continue
		}
		if cur, ok := latest[m.ProjectID]; !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[m.ProjectID] = m
		}
	}
	var sum float64
	var n int
	for _, m := range latest {
		if m.IRR == nil || math.IsNaN(*m.IRR) || math.IsInf(*m.IRR, 0) {
			continue
		}
		sum += *m.IRR
		n++
	}
	if n > 0 {
		avg := sum / float64(n)
		k.AvgIRR = &avg
	}
	return k
}

// Stage is one column of the deal pipeline.
type Stage struct {
	Status model.ProjectStatus `json:"status"`
	Count  int                 `json:"count"`
	Value  float64             `json:"value"`
}

// Pipeline counts and sums projects per status, in the order of statuses.
// No statuses means every status.
func Pipeline(projects []model.Project, statuses ...model.ProjectStatus) []Stage {
	if len(statuses) == 0 {
		statuses = model.ProjectStatusValues()
	}
	index := make(map[model.ProjectStatus]int, len(statuses))
	stages := make([]Stage, len(statuses))
	for i, s := range statuses {
		stages[i].Status = s
		index[s] = i
	}
	for _, p := range projects {
		if i, ok := index[p.Status]; ok {
			stages[i].Count++
			stages[i].Value += p.Investment()
		}
	}
	return stages
}

// Dimension groups projects for Distribution.
type Dimension string

const (
	BySector  Dimension = "sector"
	ByCountry Dimension = "country"
)

// Share is one slice of a distribution.
type Share struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution splits total investment by sector or country, largest first.
func Distribution(projects []model.Project, by Dimension) []Share {
	return group(projects, func(p model.Project) string {
		if by == ByCountry {
			return p.Country
		}
		return p.Sector.String()
	}, model.Project.Investment)
}

// CountBy groups projects by key and reports each group's share of the count.
func CountBy(projects []model.Project, key func(model.Project) string) []Share {
	return group(projects, key, func(model.Project) float64 { return 1 })
}

func group(projects []model.Project, key func(model.Project) string, value func(model.Project) float64) []Share {
	byKey := map[string]*Share{}
	var total float64
	for _, p := range projects {
		k := key(p)
		if k == "" {
			k = "unknown"
		}
		s, ok := byKey[k]
		if !ok {
			s = &Share{Key: k}
			byKey[k] = s
		}
		v := value(p)
		s.Value += v
		s.Count++
		total += v
	}

	out := make([]Share, 0, len(byKey))
	for _, s := range byKey {
		s.Percent = Percent(s.Value, total)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Share) int {
		return cmp.Or(cmp.Compare(b.Value, a.Value), cmp.Compare(a.Key, b.Key))
	})
	return out
}

// Percent returns part as a percentage of total, clamped to [0, 100].
// A non-positive total yields 0.
func Percent(part, total float64) float64 {
	if total <= 0 || math.IsNaN(part) || math.IsNaN(total) {
		return 0
	}
	return math.Max(0, math.Min(100, part/total*100))
}

// ScorePercent maps a score on a 0..scale range to a bar width.
func ScorePercent(score, scale float64) float64 {
	return Percent(score, scale)
}
