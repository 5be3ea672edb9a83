package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/bitmind-ai/leadbooth/internal/entity"
)

type AnnotateLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Photos   PhotoStorage
	Analysis AnalysisEnqueuer
}

func NewAnnotateLeadUseCase(repo entity.LeadRepositoryInterface, photos PhotoStorage, analysis AnalysisEnqueuer) *AnnotateLeadUseCase {
	return &AnnotateLeadUseCase{Repo: repo, Photos: photos, Analysis: analysis}
}

// Save overwrites the whole annotation block and flips is_annotated on. There is
// no field-level patch and no optimistic locking: concurrent admins clobber each
// other, last write wins.
func (uc *AnnotateLeadUseCase) Save(ctx context.Context, input SaveAnnotationInput) error {
	if strings.TrimSpace(input.Text) == "" {
		return &DomainError{Code: CodeValidationError, Message: "annotation text is required"}
	}

	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	var identities []entity.Identity
	for _, v := range input.Identities {
		if !entity.IsValidIdentity(v) {
			return &DomainError{Code: CodeValidationError, Message: "unknown identity: " + v}
		}
		identities = append(identities, entity.Identity(v))
	}

	ann := entity.AdminAnnotation{
		Text:       input.Text,
		AudioURL:   input.AudioURL,
		PhotoURL:   input.PhotoURL,
		CreatedAt:  time.Now(),
		CreatedBy:  input.CreatedBy,
		Identities: identities,
	}

	return uc.Repo.SaveAnnotation(ctx, input.LeadID, ann)
}

// UploadPhoto resolves a local preview into a persisted storage URL. Keyed by
// lead id and upload timestamp, same as the original bucket layout.
func (uc *AnnotateLeadUseCase) UploadPhoto(ctx context.Context, leadID string, data []byte, contentType string) (string, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return "", err
	}
	if lead == nil {
		return "", &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	key := fmt.Sprintf("leads/%s/photos/%d.jpg", leadID, time.Now().UnixMilli())
	url, err := uc.Photos.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", &DomainError{Code: CodeUploadFailed, Message: "photo upload failed: " + err.Error()}
	}
	return url, nil
}

// ManualCreate adds a lead from the admin console. The record carries a stamp
// of who entered it, but is_annotated stays false until a real note is
// submitted, so the lead still shows up in the to-annotate list.
func (uc *AnnotateLeadUseCase) ManualCreate(ctx context.Context, input ManualLeadInput) (*entity.Lead, error) {
	if !IsValidEmail(input.Email) {
		return nil, &DomainError{Code: CodeValidationError, Message: "email is invalid"}
	}

	xHandle := NormalizeXHandle(input.XHandle)
	if err := ValidateXHandle(xHandle); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Name:         input.Name,
		Organization: input.Organization,
		XHandle:      xHandle,
		Note:         input.Note,
		Annotation: &entity.AdminAnnotation{
			Text:      "Manually added by " + input.CreatedBy,
			CreatedAt: time.Now(),
			CreatedBy: input.CreatedBy,
		},
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	// Kick off analysis right away instead of waiting for the next sweep.
	// Best effort: a queue hiccup must not fail the creation.
	if uc.Analysis != nil {
		if err := uc.Analysis.PublishAnalysis(ctx, lead.ID); err != nil {
			log.Printf("annotate: failed to enqueue analysis for manual lead %s: %v", lead.ID, err)
		}
	}

	return lead, nil
}
