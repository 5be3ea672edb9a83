package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/infra/http/middleware"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

// 8MB is plenty for a phone photo of a business card.
const maxPhotoBytes = 8 << 20

type AdminHandler struct {
	Repo     entity.LeadRepositoryInterface
	Annotate *usecase.AnnotateLeadUseCase
}

func NewAdminHandler(repo entity.LeadRepositoryInterface, annotate *usecase.AnnotateLeadUseCase) *AdminHandler {
	return &AdminHandler{Repo: repo, Annotate: annotate}
}

// HandleListLeads serves the console's two tabs: ?annotated=true|false.
func (h *AdminHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	annotated := r.URL.Query().Get("annotated") == "true"

	leads, err := h.Repo.ListByAnnotated(r.Context(), annotated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	writeJSON(w, http.StatusOK, leads)
}

func (h *AdminHandler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.ManualLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.CreatedBy = middleware.AdminEmail(r.Context())

	lead, err := h.Annotate.ManualCreate(r.Context(), input)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			writeError(w, http.StatusBadRequest, de.Code, de.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lead")
		return
	}

	middleware.RecordLeadCaptured("manual")
	writeJSON(w, http.StatusCreated, lead)
}

func (h *AdminHandler) HandleSaveAnnotation(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveAnnotationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.LeadID = chi.URLParam(r, "leadId")
	input.CreatedBy = middleware.AdminEmail(r.Context())

	if err := h.Annotate.Save(r.Context(), input); err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			status := http.StatusBadRequest
			if de.Code == usecase.CodeLeadNotFound {
				status = http.StatusNotFound
			}
			writeError(w, status, de.Code, de.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save annotation")
		return
	}

	middleware.RecordAnnotationSaved()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleUploadPhoto turns the console's local preview into a persisted
// storage URL. The returned URL goes into the next annotation save.
func (h *AdminHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "No photo file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Failed to read photo")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	url, err := h.Annotate.UploadPhoto(r.Context(), leadID, data, contentType)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			status := http.StatusBadGateway
			if de.Code == usecase.CodeLeadNotFound {
				status = http.StatusNotFound
			}
			writeError(w, status, de.Code, de.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload photo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"photoUrl": url})
}
