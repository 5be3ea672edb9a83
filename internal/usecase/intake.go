package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/bitmind-ai/leadbooth/internal/entity"
)

// Step order per form variant. The email step is always first; everything after
// it is optional and an empty submission just advances.
var variantSteps = map[string][]string{
	VariantWelcome: {StepEmail, StepName, StepThanks},
	VariantQR:      {StepEmail, StepName, StepOrganization, StepTeammate, StepXHandle, StepNote, StepThanks},
}

var stepColumns = map[string]string{
	StepName:         "name",
	StepOrganization: "organization",
	StepTeammate:     "teammate_met",
	StepXHandle:      "x_handle",
	StepNote:         "note",
}

type IntakeUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Email EmailService
}

func NewIntakeUseCase(repo entity.LeadRepositoryInterface, email EmailService) *IntakeUseCase {
	return &IntakeUseCase{Repo: repo, Email: email}
}

// SubmitEmail looks the email up before inserting so a returning visitor keeps
// their record. Not transactional: two concurrent submissions with the same
// email can still produce duplicates, which is accepted.
func (uc *IntakeUseCase) SubmitEmail(ctx context.Context, input SubmitEmailInput) (*SubmitEmailOutput, error) {
	if !IsValidEmail(input.Email) {
		return nil, &DomainError{Code: CodeValidationError, Message: "email is invalid"}
	}

	variant := input.Variant
	if _, ok := variantSteps[variant]; !ok {
		variant = VariantWelcome
	}

	existing, err := uc.Repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	var lead *entity.Lead
	created := false

	if existing != nil {
		lead = existing
		if err := uc.Repo.Touch(ctx, lead.ID); err != nil {
			return nil, err
		}
	} else {
		lead = &entity.Lead{
			ID:    uuid.New().String(),
			Email: input.Email,
		}
		if err := uc.Repo.Create(ctx, lead); err != nil {
			return nil, err
		}
		created = true
	}

	// Geolocation is best effort: the client already gave up after its 5s
	// timeout if the field is absent. Storage failure is logged, never surfaced.
	if input.Location != nil {
		loc := entity.Location{
			Latitude:   input.Location.Latitude,
			Longitude:  input.Location.Longitude,
			Accuracy:   input.Location.Accuracy,
			CapturedAt: time.Now(),
		}
		if err := uc.Repo.SetLocation(ctx, lead.ID, loc); err != nil {
			log.Printf("intake: failed to store location for lead %s: %v", lead.ID, err)
		}
	}

	if created && uc.Email != nil {
		go func(name, email string) {
			if err := uc.Email.SendFollowUp(name, email); err != nil {
				log.Printf("intake: follow-up email to %s failed: %v", email, err)
			}
		}(lead.Name, lead.Email)
	}

	return &SubmitEmailOutput{
		LeadID:   lead.ID,
		Created:  created,
		NextStep: nextStep(variant, StepEmail),
	}, nil
}

// SubmitStep persists one optional field and advances. An empty value advances
// without writing. A bad x handle blocks advancement and writes nothing.
func (uc *IntakeUseCase) SubmitStep(ctx context.Context, input SubmitStepInput) (*SubmitStepOutput, error) {
	variant := input.Variant
	if _, ok := variantSteps[variant]; !ok {
		variant = VariantWelcome
	}

	column, ok := stepColumns[input.Step]
	if !ok || !variantHasStep(variant, input.Step) {
		return nil, &DomainError{Code: CodeValidationError, Message: "unknown form step: " + input.Step}
	}

	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	value := input.Value
	if input.Step == StepXHandle {
		value = NormalizeXHandle(value)
		if err := ValidateXHandle(value); err != nil {
			return nil, err
		}
	}

	if value != "" {
		if err := uc.Repo.UpdateField(ctx, lead.ID, column, value); err != nil {
			return nil, err
		}
	}

	return &SubmitStepOutput{NextStep: nextStep(variant, input.Step)}, nil
}

func variantHasStep(variant, step string) bool {
	for _, s := range variantSteps[variant] {
		if s == step {
			return true
		}
	}
	return false
}

func nextStep(variant, current string) string {
	steps := variantSteps[variant]
	for i, s := range steps {
		if s == current && i+1 < len(steps) {
			return steps[i+1]
		}
	}
	return StepThanks
}
