package endpoints

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/document"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
	"github.com/infraflow-ai/infraflow/pkg/upload"
)

const (
	// maxBatchFiles bounds the files accepted by one upload or simulation.
	maxBatchFiles = 20

	multipartMemory = 32 << 20
)

// RegisterDocumentsEndpoints registers document upload, processing and lookup endpoints
func RegisterDocumentsEndpoints(s *server.Server) {
	projects := s.Projects
	documents := s.Documents
	cfg := s.Config

	// POST /documents/upload - multipart files plus project_id
	s.API.HandleFunc("/documents/upload", handleUploadDocuments(projects, documents, cfg)).Methods("POST")

	// POST /documents/simulate - {"files": [...]} walked through the upload simulator
	s.API.HandleFunc("/documents/simulate", handleSimulateUpload(cfg)).Methods("POST")

	// GET /documents/{id}
	s.API.HandleFunc("/documents/{id}", handleGetDocument(documents)).Methods("GET")

	// POST /documents/{id}/process - Classify and mark processed
	s.API.HandleFunc("/documents/{id}/process", handleProcessDocument(projects, documents)).Methods("POST")

	// DELETE /documents/{id}
	s.API.HandleFunc("/documents/{id}", handleDeleteDocument(projects, documents)).Methods("DELETE")

	// GET /projects/{id}/documents
	s.API.HandleFunc("/projects/{id}/documents", handleListDocuments(projects, documents)).Methods("GET")
}

// UploadedFile is one entry of an upload response.
type UploadedFile struct {
	Name     string          `json:"name"`
	Status   upload.Status   `json:"status"`
	Document *model.Document `json:"document,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// UploadResponse is returned by POST /documents/upload
type UploadResponse struct {
	ProjectID uuid.UUID      `json:"project_id"`
	Uploaded  int            `json:"uploaded"`
	Failed    int            `json:"failed"`
	Files     []UploadedFile `json:"files"`
}

func handleUploadDocuments(projects store.ProjectStore, documents store.DocumentStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadSize*maxBatchFiles)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart body: %v", err))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		projectID, err := uuid.Parse(r.FormValue("project_id"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid project_id")
			return
		}
		p, ok := fetchProject(w, r, projects, projectID)
		if !ok || !authorizeProject(w, r, p) {
			return
		}

		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "At least one file is required")
			return
		}
		if len(headers) > maxBatchFiles {
			respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("At most %d files may be uploaded at once", maxBatchFiles))
			return
		}

		incoming := make([]upload.Incoming, len(headers))
		for i, fh := range headers {
			incoming[i] = upload.Incoming{Name: fh.Filename, Size: fh.Size}
		}

		processor := upload.NewProcessor(documents, document.Limits{
			MaxSize:      cfg.MaxUploadSize,
			AllowedTypes: cfg.AllowedFileTypes,
		})
		outcomes, err := processor.Process(r.Context(), p.ID, caller(r).Actor(), incoming)
		if err != nil {
			respondWithStoreError(w, r, err, "store uploaded documents")
			return
		}

		resp := UploadResponse{ProjectID: p.ID, Files: make([]UploadedFile, len(outcomes))}
		for i, out := range outcomes {
			f := UploadedFile{Name: out.File.Name, Status: out.File.Status, Document: out.Document}
			if out.Err != nil {
				f.Error = out.Err.Error()
				resp.Failed++
			} else {
				resp.Uploaded++
			}
			resp.Files[i] = f
		}
		respondWithJSON(w, http.StatusCreated, resp)
	}
}

type simulateRequest struct {
	Files []string `json:"files"`
}

// SimulateResponse is returned by POST /documents/simulate
type SimulateResponse struct {
	Files []upload.File `json:"files"`
}

func handleSimulateUpload(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Files) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "files must list at least one name")
			return
		}
		if len(req.Files) > maxBatchFiles {
			respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("At most %d files may be simulated at once", maxBatchFiles))
			return
		}
		for _, name := range req.Files {
			if strings.TrimSpace(name) == "" {
				respondWithError(w, http.StatusUnprocessableEntity, "file names must not be empty")
				return
			}
		}

		log := logging.Component("upload")
		sim := upload.Simulator{
			Delay: cfg.UploadSimulatedDelay,
			Observe: func(t upload.Transition) {
				log.Debug().Int("index", t.Index).Str("file", t.Name).Str("status", string(t.Status)).Msg("simulated upload")
			},
		}
		files, err := sim.Run(r.Context(), req.Files)
		if err != nil {
			respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("Upload simulation interrupted: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, SimulateResponse{Files: files})
	}
}

func handleGetDocument(documents store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		doc, err := documents.GetDocument(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, err, "fetch document")
			return
		}
		respondWithJSON(w, http.StatusOK, doc)
	}
}

func handleListDocuments(projects store.ProjectStore, documents store.DocumentStore) http.HandlerFunc {
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
		if docs == nil {
			docs = []model.Document{}
		}
		respondWithJSON(w, http.StatusOK, docs)
	}
}

// loadOwnedDocument fetches the document and checks the caller may modify its project.
func loadOwnedDocument(w http.ResponseWriter, r *http.Request, projects store.ProjectStore, documents store.DocumentStore) (*model.Document, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	doc, err := documents.GetDocument(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, r, err, "fetch document")
		return nil, false
	}
	p, ok := fetchProject(w, r, projects, doc.ProjectID)
	if !ok || !authorizeProject(w, r, p) {
		return nil, false
	}
	return doc, true
}

func handleProcessDocument(projects store.ProjectStore, documents store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadOwnedDocument(w, r, projects, documents)
		if !ok {
			return
		}

		old := *doc
		now := time.Now().UTC()
		if doc.Type == model.DocumentTypeOther {
			doc.Type = document.DetectType(doc.Name)
		}
		if doc.MimeType == "" {
			doc.MimeType = document.MimeType(doc.Name)
		}
		if doc.Language == "" {
			doc.Language = "en"
		}
		doc.Processed = true
		doc.ProcessedAt = &now
		doc.ProcessingStatus = model.ProcessingCompleted

		if err := documents.UpdateDocument(r.Context(), doc); err != nil {
			respondWithStoreError(w, r, err, "update document")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    caller(r).Actor(),
			Table:    "documents",
			RecordID: doc.ID.String(),
			Action:   audit.ActionUpdate,
			Old:      old,
			New:      doc,
		})
		respondWithJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(projects store.ProjectStore, documents store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadOwnedDocument(w, r, projects, documents)
		if !ok {
			return
		}
		if err := documents.DeleteDocument(r.Context(), doc.ID); err != nil {
			respondWithStoreError(w, r, err, "delete document")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    caller(r).Actor(),
			Table:    "documents",
			RecordID: doc.ID.String(),
			Action:   audit.ActionDelete,
			Old:      doc,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
