package entity

import (
	"context"
	"time"
)

// Lead is one prospective contact captured at the booth (public form or manual admin entry).
// One record per unique email; never deleted by the system.
type Lead struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name,omitempty"`
	Organization string           `json:"organization,omitempty"`
	TeammateMet  string           `json:"teammateMet,omitempty"`
	XHandle      string           `json:"xHandle,omitempty"`
	Note         string           `json:"note,omitempty"`
	Location     *Location        `json:"location,omitempty"`
	IsAnnotated  bool             `json:"isAnnotated"`
	Annotation   *AdminAnnotation `json:"adminAnnotation,omitempty"`
	AIAnalysis   *AIAnalysis      `json:"aiAnalysis,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Location is the one-shot geolocation captured at the email step. Best effort only.
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"timestamp"`
}

// AdminAnnotation is overwritten wholesale on every save. No history.
type AdminAnnotation struct {
	Text       string     `json:"text"`
	AudioURL   string     `json:"audioUrl,omitempty"`
	PhotoURL   string     `json:"photoUrl,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  string     `json:"createdBy"`
	Identities []Identity `json:"identities,omitempty"`
}

// AIAnalysis is produced only by the analysis pipeline, never by the public flow.
type AIAnalysis struct {
	RelevanceScore      int        `json:"relevanceScore"`
	SuggestedIdentities []Identity `json:"suggestedIdentities,omitempty"`
	Summary             string     `json:"analysis"`
	AnalyzedAt          time.Time  `json:"lastAnalyzed"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)

	// UpdateField writes a single intake field (name, organization, teammate_met,
	// x_handle, note) and bumps updated_at.
	UpdateField(ctx context.Context, id, field, value string) error

	// Touch bumps updated_at only. Used when an already known email comes back
	// through the form with nothing new.
	Touch(ctx context.Context, id string) error
	SetLocation(ctx context.Context, id string, loc Location) error

	// SaveAnnotation overwrites the whole annotation block and sets is_annotated.
	SaveAnnotation(ctx context.Context, id string, ann AdminAnnotation) error
	SaveAnalysis(ctx context.Context, id string, analysis AIAnalysis) error

	ListByAnnotated(ctx context.Context, annotated bool) ([]*Lead, error)
	ListMissingAnalysis(ctx context.Context) ([]*Lead, error)
}
