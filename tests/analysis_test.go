package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

func TestAnalyzeLeadRunsBothCallsAndStores(t *testing.T) {
	repo := new(MockLeadRepository)
	research := new(MockResearchClient)

	lead := &entity.Lead{
		ID:           "lead-1",
		Email:        "a@x.com",
		Name:         "Jo",
		Organization: "Acme",
	}

	research.On("Research", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Jo") &&
			strings.Contains(prompt, "a@x.com") &&
			strings.Contains(prompt, "Acme") &&
			strings.Contains(prompt, "No notes provided")
	})).Return("long research text", nil)
	research.On("ExtractAnalysis", mock.Anything, "long research text").Return(&usecase.ParsedAnalysis{
		RelevanceScore:      4,
		SuggestedIdentities: []string{"developer", "astronaut", "founder"},
		Analysis:            "promising lead",
	}, nil)
	repo.On("SaveAnalysis", mock.Anything, "lead-1", mock.MatchedBy(func(a entity.AIAnalysis) bool {
		return a.RelevanceScore == 4 &&
			a.Summary == "promising lead" &&
			len(a.SuggestedIdentities) == 2 // "astronaut" is outside the closed set
	})).Return(nil)

	uc := usecase.NewAnalyzeLeadUseCase(repo, research)
	analysis, err := uc.Analyze(context.Background(), lead)

	assert.NoError(t, err)
	assert.Equal(t, []entity.Identity{entity.IdentityDeveloper, entity.IdentityFounder}, analysis.SuggestedIdentities)
	repo.AssertExpectations(t)
}

func TestAnalyzeLeadClampsScore(t *testing.T) {
	repo := new(MockLeadRepository)
	research := new(MockResearchClient)

	research.On("Research", mock.Anything, mock.Anything).Return("text", nil)
	research.On("ExtractAnalysis", mock.Anything, "text").Return(&usecase.ParsedAnalysis{
		RelevanceScore: 87, // model occasionally answers on the 0-100 scale
		Analysis:       "x",
	}, nil)
	repo.On("SaveAnalysis", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewAnalyzeLeadUseCase(repo, research)
	analysis, err := uc.Analyze(context.Background(), &entity.Lead{ID: "lead-1", Email: "a@x.com"})

	assert.NoError(t, err)
	assert.Equal(t, 5, analysis.RelevanceScore)
}

func TestAnalyzeLeadResearchFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	research := new(MockResearchClient)

	research.On("Research", mock.Anything, mock.Anything).Return("", assert.AnError)

	uc := usecase.NewAnalyzeLeadUseCase(repo, research)
	_, err := uc.Analyze(context.Background(), &entity.Lead{ID: "lead-1", Email: "a@x.com"})

	de, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeAnalysisFailed, de.Code)
	repo.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeLeadExtractionFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	research := new(MockResearchClient)

	research.On("Research", mock.Anything, mock.Anything).Return("text", nil)
	research.On("ExtractAnalysis", mock.Anything, "text").Return(nil, assert.AnError)

	uc := usecase.NewAnalyzeLeadUseCase(repo, research)
	_, err := uc.Analyze(context.Background(), &entity.Lead{ID: "lead-1", Email: "a@x.com"})

	de, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeAnalysisFailed, de.Code)
	repo.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeByIDSkipsAlreadyAnalyzed(t *testing.T) {
	repo := new(MockLeadRepository)
	research := new(MockResearchClient)

	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{
		ID:         "lead-1",
		Email:      "a@x.com",
		AIAnalysis: &entity.AIAnalysis{RelevanceScore: 3, Summary: "done"},
	}, nil)

	uc := usecase.NewAnalyzeLeadUseCase(repo, research)
	analysis, err := uc.AnalyzeByID(context.Background(), "lead-1")

	assert.NoError(t, err)
	assert.Equal(t, "done", analysis.Summary)
	research.AssertNotCalled(t, "Research", mock.Anything, mock.Anything)
}
