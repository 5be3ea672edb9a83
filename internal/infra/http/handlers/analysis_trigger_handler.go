package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

// AnalysisTriggerHandler is the scheduled entry point: the external scheduler
// hits it with a shared-secret bearer header, and every lead still missing an
// analysis gets enqueued for the worker.
type AnalysisTriggerHandler struct {
	Repo     entity.LeadRepositoryInterface
	Producer usecase.AnalysisEnqueuer
	Secret   string
}

func NewAnalysisTriggerHandler(repo entity.LeadRepositoryInterface, producer usecase.AnalysisEnqueuer, secret string) *AnalysisTriggerHandler {
	return &AnalysisTriggerHandler{Repo: repo, Producer: producer, Secret: secret}
}

func (h *AnalysisTriggerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) != 1 {
		writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Invalid trigger secret")
		return
	}

	leads, err := h.Repo.ListMissingAnalysis(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to scan leads")
		return
	}

	// Per-lead failures are the worker's problem; the trigger acks success
	// as long as the scan itself worked.
	enqueued := 0
	for _, lead := range leads {
		if err := h.Producer.PublishAnalysis(r.Context(), lead.ID); err != nil {
			log.Printf("trigger: failed to enqueue lead %s: %v", lead.ID, err)
			continue
		}
		enqueued++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"enqueued": enqueued,
	})
}
