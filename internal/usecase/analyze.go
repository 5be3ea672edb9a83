package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmind-ai/leadbooth/internal/entity"
)

type AnalyzeLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Research ResearchClient
}

func NewAnalyzeLeadUseCase(repo entity.LeadRepositoryInterface, research ResearchClient) *AnalyzeLeadUseCase {
	return &AnalyzeLeadUseCase{Repo: repo, Research: research}
}

// Analyze runs the two-call pipeline for one lead: a research completion over
// the lead's fields, then a structured extraction of that text. A failure at
// either call fails the whole lead; the caller decides retry semantics.
func (uc *AnalyzeLeadUseCase) Analyze(ctx context.Context, lead *entity.Lead) (*entity.AIAnalysis, error) {
	raw, err := uc.Research.Research(ctx, buildResearchPrompt(lead))
	if err != nil {
		return nil, &DomainError{Code: CodeAnalysisFailed, Message: "research call failed: " + err.Error()}
	}

	parsed, err := uc.Research.ExtractAnalysis(ctx, raw)
	if err != nil {
		return nil, &DomainError{Code: CodeAnalysisFailed, Message: "analysis extraction failed: " + err.Error()}
	}

	analysis := entity.AIAnalysis{
		RelevanceScore:      clampScore(parsed.RelevanceScore),
		SuggestedIdentities: entity.ParseIdentities(parsed.SuggestedIdentities),
		Summary:             parsed.Analysis,
		AnalyzedAt:          time.Now(),
	}

	if err := uc.Repo.SaveAnalysis(ctx, lead.ID, analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeByID is the queue-worker entry point.
func (uc *AnalyzeLeadUseCase) AnalyzeByID(ctx context.Context, leadID string) (*entity.AIAnalysis, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}
	if lead.AIAnalysis != nil {
		// Already analyzed, nothing to redo. Duplicate deliveries end here.
		return lead.AIAnalysis, nil
	}
	return uc.Analyze(ctx, lead)
}

func buildResearchPrompt(lead *entity.Lead) string {
	return fmt.Sprintf(`Analyze this potential lead for BitMind:
Name: %s
Email: %s
Organization: %s
Note: %s
X Handle: %s`,
		orUnknown(lead.Name),
		lead.Email,
		orUnknown(lead.Organization),
		orDefault(lead.Note, "No notes provided"),
		orDefault(lead.XHandle, "None provided"),
	)
}

func orUnknown(s string) string {
	return orDefault(s, "Unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
