package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/portfolio"
	"github.com/infraflow-ai/infraflow/pkg/risk"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// recentProjects is the number of projects on the dashboard.
const recentProjects = 5

// RegisterAnalyticsEndpoints registers dashboard and portfolio analytics endpoints
func RegisterAnalyticsEndpoints(s *server.Server) {
	// GET /analytics/dashboard - KPIs, pipeline and recent projects
	s.API.HandleFunc("/analytics/dashboard", handleDashboard(s.Projects, s.Models)).Methods("GET")

	// GET /analytics/portfolio - Distributions and compliance progress
	s.API.HandleFunc("/analytics/portfolio", handlePortfolio(s.Projects, s.Compliance)).Methods("GET")

	// GET /analytics/projects/{id}/risk-assessment - Fresh assessment, not stored
	s.API.HandleFunc("/analytics/projects/{id}/risk-assessment", handleRiskAssessment(s.Projects, s.Documents)).Methods("GET")
}

// DashboardResponse is returned by GET /analytics/dashboard
type DashboardResponse struct {
	KPIs           portfolio.KPIs    `json:"kpis"`
	Pipeline       []portfolio.Stage `json:"pipeline"`
	RecentProjects []model.Project   `json:"recent_projects"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

func handleDashboard(projects store.ProjectStore, models store.FinancialModelStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			all    []model.Project
			latest []model.FinancialModel
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			all, err = projects.ListProjects(ctx, store.ProjectQuery{})
			return err
		})
		g.Go(func() (err error) {
			latest, err = models.AllFinancialModels(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			respondWithStoreError(w, r, err, "load dashboard data")
			return
		}

		respondWithJSON(w, http.StatusOK, DashboardResponse{
			KPIs:           portfolio.ComputeKPIs(all, latest),
			Pipeline:       portfolio.Pipeline(all),
			RecentProjects: portfolio.Recent(all, recentProjects),
			GeneratedAt:    time.Now().UTC(),
		})
	}
}

// ProgressBar is a labelled bar width in percent.
type ProgressBar struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
	Total   int     `json:"total"`
}

// PortfolioResponse is returned by GET /analytics/portfolio
type PortfolioResponse struct {
	BySector           []portfolio.Share `json:"by_sector"`
	ByCountry          []portfolio.Share `json:"by_country"`
	RiskDistribution   []portfolio.Share `json:"risk_distribution"`
	ComplianceProgress []ProgressBar     `json:"compliance_progress"`
}

// unassessed groups projects that have no risk score yet.
const unassessed = "unassessed"

// riskBand places a project's 0..10 risk score into a level.
func riskBand(p model.Project) string {
	if p.RiskScore == nil {
		return unassessed
	}
	return risk.Level(portfolio.ScorePercent(*p.RiskScore, 10))
}

func handlePortfolio(projects store.ProjectStore, checks store.ComplianceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			all       []model.Project
			allChecks []model.ComplianceCheck
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			all, err = projects.ListProjects(ctx, store.ProjectQuery{})
			return err
		})
		g.Go(func() (err error) {
			allChecks, err = checks.AllChecks(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			respondWithStoreError(w, r, err, "load portfolio data")
			return
		}

		respondWithJSON(w, http.StatusOK, PortfolioResponse{
			BySector:           portfolio.Distribution(all, portfolio.BySector),
			ByCountry:          portfolio.Distribution(all, portfolio.ByCountry),
			RiskDistribution:   portfolio.CountBy(all, riskBand),
			ComplianceProgress: complianceProgress(all, allChecks),
		})
	}
}

// complianceProgress reports, per standard, the share of live projects whose
// latest check is compliant or approved, in order of first appearance.
// Checks of projects missing from projects (deleted ones) are skipped.
func complianceProgress(projects []model.Project, checks []model.ComplianceCheck) []ProgressBar {
	live := make(map[uuid.UUID]struct{}, len(projects))
	for _, p := range projects {
		live[p.ID] = struct{}{}
	}

	type key struct {
		project  uuid.UUID
		standard string
	}
	latest := map[key]int{}
	var order []key
	for i, c := range checks {
		if _, ok := live[c.ProjectID]; !ok {
			continue
		}
		k := key{c.ProjectID, c.Standard}
		j, seen := latest[k]
		if !seen {
			order = append(order, k)
			latest[k] = i
			continue
		}
		if !checkedAt(c).Before(checkedAt(checks[j])) {
			latest[k] = i
		}
	}

	index := map[string]int{}
	bars := []ProgressBar{}
	for _, k := range order {
		i, ok := index[k.standard]
		if !ok {
			i = len(bars)
			index[k.standard] = i
			bars = append(bars, ProgressBar{Label: k.standard})
		}
		bars[i].Total++
		if c := checks[latest[k]]; c.Status == model.ComplianceStatusCompliant || c.Status == model.ComplianceStatusApproved {
			bars[i].Count++
		}
	}
	for i := range bars {
		bars[i].Percent = portfolio.Percent(float64(bars[i].Count), float64(bars[i].Total))
	}
	return bars
}

func checkedAt(c model.ComplianceCheck) time.Time {
	if c.CheckedAt != nil {
		return *c.CheckedAt
	}
	return c.CreatedAt
}

func handleRiskAssessment(projects store.ProjectStore, documents store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadProject(w, r, projects, "id")
		if !ok {
			return
		}
		docs, err := documents.ListDocuments(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list documents")
			return
		}
		respondWithJSON(w, http.StatusOK, risk.Assess(p.ID, extractedData(docs), time.Now()))
	}
}
