package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitmind-ai/leadbooth/internal/infra/http/middleware"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

type IntakeHandler struct {
	Intake      *usecase.IntakeUseCase
	rateLimiter *RateLimiter
}

func NewIntakeHandler(intake *usecase.IntakeUseCase) *IntakeHandler {
	return &IntakeHandler{
		Intake:      intake,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// HandleSubmitEmail is the first form step: create or re-use the lead record.
func (h *IntakeHandler) HandleSubmitEmail(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.Intake.SubmitEmail(r.Context(), input)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			writeError(w, http.StatusBadRequest, de.Code, de.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to capture lead")
		return
	}

	if output.Created {
		middleware.RecordLeadCaptured("form")
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, output)
}

// HandleSubmitStep persists one optional field of the linear flow.
func (h *IntakeHandler) HandleSubmitStep(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitStepInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.LeadID = chi.URLParam(r, "leadId")

	output, err := h.Intake.SubmitStep(r.Context(), input)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			status := http.StatusBadRequest
			if de.Code == usecase.CodeLeadNotFound {
				status = http.StatusNotFound
			}
			writeError(w, status, de.Code, de.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save step")
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
