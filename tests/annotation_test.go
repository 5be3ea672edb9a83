package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

func TestSaveAnnotation(t *testing.T) {
	repo := new(MockLeadRepository)

	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1", Email: "a@x.com"}, nil)
	repo.On("SaveAnnotation", mock.Anything, "lead-1", mock.MatchedBy(func(ann entity.AdminAnnotation) bool {
		return ann.Text == "met at booth" &&
			ann.CreatedBy == "ken@bitmind.ai" &&
			len(ann.Identities) == 1 &&
			ann.Identities[0] == entity.IdentityDeveloper
	})).Return(nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, nil)
	err := uc.Save(context.Background(), usecase.SaveAnnotationInput{
		LeadID:     "lead-1",
		Text:       "met at booth",
		Identities: []string{"developer"},
		CreatedBy:  "ken@bitmind.ai",
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Re-saving the same content produces the same persisted shape, timestamps
// aside. The save is a wholesale overwrite, so idempotence falls out of it.
func TestSaveAnnotationIsIdempotent(t *testing.T) {
	repo := new(MockLeadRepository)

	var saved []entity.AdminAnnotation
	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1"}, nil)
	repo.On("SaveAnnotation", mock.Anything, "lead-1", mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(2).(entity.AdminAnnotation))
	}).Return(nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, nil)
	input := usecase.SaveAnnotationInput{
		LeadID:     "lead-1",
		Text:       "met at booth",
		Identities: []string{"developer", "founder"},
		CreatedBy:  "ken@bitmind.ai",
	}

	assert.NoError(t, uc.Save(context.Background(), input))
	assert.NoError(t, uc.Save(context.Background(), input))

	assert.Len(t, saved, 2)
	first, second := saved[0], saved[1]
	second.CreatedAt = first.CreatedAt
	assert.Equal(t, first, second)
}

func TestSaveAnnotationRequiresText(t *testing.T) {
	uc := usecase.NewAnnotateLeadUseCase(new(MockLeadRepository), nil, nil)

	err := uc.Save(context.Background(), usecase.SaveAnnotationInput{LeadID: "lead-1", Text: "   "})

	assert.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
}

func TestSaveAnnotationRejectsUnknownIdentity(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1"}, nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, nil)
	err := uc.Save(context.Background(), usecase.SaveAnnotationInput{
		LeadID:     "lead-1",
		Text:       "note",
		Identities: []string{"vip"},
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "SaveAnnotation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveAnnotationLeadNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, nil)
	err := uc.Save(context.Background(), usecase.SaveAnnotationInput{LeadID: "missing", Text: "note"})

	de, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeLeadNotFound, de.Code)
}

func TestUploadPhotoResolvesStorageURL(t *testing.T) {
	repo := new(MockLeadRepository)
	photos := new(MockPhotoStorage)

	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1"}, nil)
	photos.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > len("leads/lead-1/photos/") && key[:20] == "leads/lead-1/photos/"
	}), []byte("jpegdata"), "image/jpeg").Return("https://cdn.example.com/leads/lead-1/photos/1.jpg", nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, photos, nil)
	url, err := uc.UploadPhoto(context.Background(), "lead-1", []byte("jpegdata"), "image/jpeg")

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/leads/lead-1/photos/1.jpg", url)
}

func TestUploadPhotoFailureIsUploadFailed(t *testing.T) {
	repo := new(MockLeadRepository)
	photos := new(MockPhotoStorage)

	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1"}, nil)
	photos.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	uc := usecase.NewAnnotateLeadUseCase(repo, photos, nil)
	_, err := uc.UploadPhoto(context.Background(), "lead-1", []byte("x"), "image/jpeg")

	de, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeUploadFailed, de.Code)
}

func TestManualCreateStampsCreatorAndEnqueuesAnalysis(t *testing.T) {
	repo := new(MockLeadRepository)
	enqueuer := new(MockAnalysisEnqueuer)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Email == "b@y.com" &&
			l.Annotation != nil &&
			l.Annotation.Text == "Manually added by ken@bitmind.ai" &&
			l.Annotation.CreatedBy == "ken@bitmind.ai" &&
			!l.IsAnnotated
	})).Return(nil)
	enqueuer.On("PublishAnalysis", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, enqueuer)
	lead, err := uc.ManualCreate(context.Background(), usecase.ManualLeadInput{
		Email:     "b@y.com",
		Name:      "Blake",
		CreatedBy: "ken@bitmind.ai",
	})

	assert.NoError(t, err)
	assert.NotNil(t, lead)
	enqueuer.AssertCalled(t, "PublishAnalysis", mock.Anything, lead.ID)
}

func TestManualCreateSurvivesQueueFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	enqueuer := new(MockAnalysisEnqueuer)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	enqueuer.On("PublishAnalysis", mock.Anything, mock.Anything).Return(assert.AnError)

	uc := usecase.NewAnnotateLeadUseCase(repo, nil, enqueuer)
	lead, err := uc.ManualCreate(context.Background(), usecase.ManualLeadInput{
		Email:     "b@y.com",
		CreatedBy: "ken@bitmind.ai",
	})

	assert.NoError(t, err)
	assert.NotNil(t, lead)
}
