package tests

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateField(ctx context.Context, id, field, value string) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *MockLeadRepository) Touch(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) SetLocation(ctx context.Context, id string, loc entity.Location) error {
	args := m.Called(ctx, id, loc)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveAnnotation(ctx context.Context, id string, ann entity.AdminAnnotation) error {
	args := m.Called(ctx, id, ann)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveAnalysis(ctx context.Context, id string, analysis entity.AIAnalysis) error {
	args := m.Called(ctx, id, analysis)
	return args.Error(0)
}

func (m *MockLeadRepository) ListByAnnotated(ctx context.Context, annotated bool) ([]*entity.Lead, error) {
	args := m.Called(ctx, annotated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListMissingAnalysis(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendFollowUp(name, email string) error {
	args := m.Called(name, email)
	return args.Error(0)
}

type MockResearchClient struct {
	mock.Mock
}

func (m *MockResearchClient) Research(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockResearchClient) ExtractAnalysis(ctx context.Context, analysisText string) (*usecase.ParsedAnalysis, error) {
	args := m.Called(ctx, analysisText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ParsedAnalysis), args.Error(1)
}

type MockTranscriptionClient struct {
	mock.Mock
}

func (m *MockTranscriptionClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	args := m.Called(ctx, audio, mimeType)
	return args.String(0), args.Error(1)
}

type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type MockAnalysisEnqueuer struct {
	mock.Mock
}

func (m *MockAnalysisEnqueuer) PublishAnalysis(ctx context.Context, leadID string) error {
	args := m.Called(ctx, leadID)
	return args.Error(0)
}
