package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// RegisterStakeholdersEndpoints registers stakeholder CRUD endpoints
func RegisterStakeholdersEndpoints(s *server.Server) {
	projects := s.Projects
	stakeholders := s.Stakeholders

	// GET /projects/{id}/stakeholders
	s.API.HandleFunc("/projects/{id}/stakeholders", handleListStakeholders(projects, stakeholders)).Methods("GET")

	// POST /projects/{id}/stakeholders
	s.API.HandleFunc("/projects/{id}/stakeholders", handleCreateStakeholder(projects, stakeholders)).Methods("POST")

	// GET /stakeholders/{id}
	s.API.HandleFunc("/stakeholders/{id}", handleGetStakeholder(stakeholders)).Methods("GET")

	// PATCH /stakeholders/{id}
	s.API.HandleFunc("/stakeholders/{id}", handleUpdateStakeholder(projects, stakeholders)).Methods("PATCH")

	// DELETE /stakeholders/{id}
	s.API.HandleFunc("/stakeholders/{id}", handleDeleteStakeholder(projects, stakeholders)).Methods("DELETE")
}

type stakeholderRequest struct {
	Name             *string `json:"name"`
	Role             *string `json:"role"`
	Organization     *string `json:"organization"`
	StakeholderType  *string `json:"stakeholder_type"`
	Country          *string `json:"country"`
	InfluenceLevel   *string `json:"influence_level"`
	EngagementStatus *string `json:"engagement_status"`
	ContactEmail     *string `json:"contact_email"`
	ContactPhone     *string `json:"contact_phone"`
	Notes            *string `json:"notes"`
}

func (req stakeholderRequest) validate(create bool) error {
	var errs *multierror.Error
	if create || req.Name != nil {
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			errs = multierror.Append(errs, errors.New("name is required"))
		}
	}
	if create || req.Role != nil {
		if req.Role == nil || strings.TrimSpace(*req.Role) == "" {
			errs = multierror.Append(errs, errors.New("role is required"))
		}
	}
	if req.ContactEmail != nil && *req.ContactEmail != "" {
		if _, err := mail.ParseAddress(*req.ContactEmail); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("contact_email %q is not a valid address", *req.ContactEmail))
		}
	}
	return errs.ErrorOrNil()
}

func (req stakeholderRequest) apply(s *model.Stakeholder) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&s.Name, req.Name)
	set(&s.Role, req.Role)
	set(&s.Organization, req.Organization)
	set(&s.StakeholderType, req.StakeholderType)
	set(&s.Country, req.Country)
	set(&s.InfluenceLevel, req.InfluenceLevel)
	set(&s.EngagementStatus, req.EngagementStatus)
	set(&s.ContactEmail, req.ContactEmail)
	set(&s.ContactPhone, req.ContactPhone)
	set(&s.Notes, req.Notes)
}

func handleListStakeholders(projects store.ProjectStore, stakeholders store.StakeholderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadProject(w, r, projects, "id")
		if !ok {
			return
		}
		list, err := stakeholders.ListStakeholders(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list stakeholders")
			return
		}
		if list == nil {
			list = []model.Stakeholder{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateStakeholder(projects store.ProjectStore, stakeholders store.StakeholderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadOwnedProject(w, r, projects, "id")
		if !ok {
			return
		}
		var req stakeholderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := req.validate(true); err != nil {
			respondWithValidationError(w, err)
			return
		}

		id := caller(r)
		sh := &model.Stakeholder{ProjectChild: model.ProjectChild{ProjectID: p.ID}}
		req.apply(sh)
		sh.CreatedBy = &id.UserID
		if err := stakeholders.CreateStakeholder(r.Context(), sh); err != nil {
			respondWithStoreError(w, r, err, "create stakeholder")
			return
		}

		// Contact details stay out of the audit trail.
		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    id.Actor(),
			Table:    "stakeholders",
			RecordID: sh.ID.String(),
			Action:   audit.ActionInsert,
			New:      redactContact(*sh),
		})
		respondWithJSON(w, http.StatusCreated, sh)
	}
}

func redactContact(s model.Stakeholder) model.Stakeholder {
	if s.ContactEmail != "" {
		s.ContactEmail = "[redacted]"
	}
	if s.ContactPhone != "" {
		s.ContactPhone = "[redacted]"
	}
	return s
}

func handleGetStakeholder(stakeholders store.StakeholderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		sh, err := stakeholders.GetStakeholder(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, err, "fetch stakeholder")
			return
		}
		respondWithJSON(w, http.StatusOK, sh)
	}
}

func loadOwnedStakeholder(w http.ResponseWriter, r *http.Request, projects store.ProjectStore, stakeholders store.StakeholderStore) (*model.Stakeholder, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	sh, err := stakeholders.GetStakeholder(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, r, err, "fetch stakeholder")
		return nil, false
	}
	p, ok := fetchProject(w, r, projects, sh.ProjectID)
	if !ok || !authorizeProject(w, r, p) {
		return nil, false
	}
	return sh, true
}

func handleUpdateStakeholder(projects store.ProjectStore, stakeholders store.StakeholderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, ok := loadOwnedStakeholder(w, r, projects, stakeholders)
		if !ok {
			return
		}
		var req stakeholderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := req.validate(false); err != nil {
			respondWithValidationError(w, err)
			return
		}

		old := redactContact(*sh)
		req.apply(sh)
		if err := stakeholders.UpdateStakeholder(r.Context(), sh); err != nil {
			respondWithStoreError(w, r, err, "update stakeholder")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    caller(r).Actor(),
			Table:    "stakeholders",
			RecordID: sh.ID.String(),
			Action:   audit.ActionUpdate,
			Old:      old,
			New:      redactContact(*sh),
		})
		respondWithJSON(w, http.StatusOK, sh)
	}
}

func handleDeleteStakeholder(projects store.ProjectStore, stakeholders store.StakeholderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, ok := loadOwnedStakeholder(w, r, projects, stakeholders)
		if !ok {
			return
		}
		if err := stakeholders.DeleteStakeholder(r.Context(), sh.ID); err != nil {
			respondWithStoreError(w, r, err, "delete stakeholder")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    caller(r).Actor(),
			Table:    "stakeholders",
			RecordID: sh.ID.String(),
			Action:   audit.ActionDelete,
			Old:      redactContact(*sh),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
