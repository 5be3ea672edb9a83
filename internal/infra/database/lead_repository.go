package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bitmind-ai/leadbooth/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, email, name, organization, teammate_met, x_handle, note,
	latitude, longitude, accuracy, location_captured_at,
	is_annotated,
	annotation_text, annotation_audio_url, annotation_photo_url,
	annotation_created_at, annotation_created_by, annotation_identities,
	ai_relevance_score, ai_identities, ai_summary, ai_analyzed_at,
	created_at, updated_at`

// Note: email has no unique constraint on purpose. De-dup is done by the
// intake flow with a lookup before insert, so a concurrent double submit can
// still create two rows. Accepted.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, email, name, organization, teammate_met, x_handle, note,
			annotation_text, annotation_created_at, annotation_created_by,
			is_annotated, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	var annText, annBy *string
	var annAt *time.Time
	if lead.Annotation != nil {
		annText = &lead.Annotation.Text
		annBy = &lead.Annotation.CreatedBy
		annAt = &lead.Annotation.CreatedAt
	}

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Organization),
		nullString(lead.TeammateMet),
		nullString(lead.XHandle),
		nullString(lead.Note),
		annText,
		annAt,
		annBy,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	// Oldest row wins if the accepted duplicate race ever materializes.
	row := r.DB.QueryRowContext(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE email = $1 ORDER BY created_at ASC LIMIT 1`, email)
	return scanLead(row)
}

var intakeColumns = map[string]bool{
	"name":         true,
	"organization": true,
	"teammate_met": true,
	"x_handle":     true,
	"note":         true,
}

func (r *LeadRepository) UpdateField(ctx context.Context, id, field, value string) error {
	if !intakeColumns[field] {
		return fmt.Errorf("column %q is not an intake field", field)
	}
	query := fmt.Sprintf(`UPDATE leads SET %s = $1, updated_at = NOW() WHERE id = $2`, field)
	_, err := r.DB.ExecContext(ctx, query, value, id)
	return err
}

func (r *LeadRepository) Touch(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE leads SET updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *LeadRepository) SetLocation(ctx context.Context, id string, loc entity.Location) error {
	query := `
		UPDATE leads SET
			latitude = $1, longitude = $2, accuracy = $3,
			location_captured_at = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.DB.ExecContext(ctx, query, loc.Latitude, loc.Longitude, loc.Accuracy, loc.CapturedAt, id)
	return err
}

func (r *LeadRepository) SaveAnnotation(ctx context.Context, id string, ann entity.AdminAnnotation) error {
	query := `
		UPDATE leads SET
			annotation_text = $1,
			annotation_audio_url = $2,
			annotation_photo_url = $3,
			annotation_created_at = $4,
			annotation_created_by = $5,
			annotation_identities = $6,
			is_annotated = true,
			updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		ann.Text,
		nullString(ann.AudioURL),
		nullString(ann.PhotoURL),
		ann.CreatedAt,
		ann.CreatedBy,
		identitiesToArray(ann.Identities),
		id,
	)
	return err
}

func (r *LeadRepository) SaveAnalysis(ctx context.Context, id string, analysis entity.AIAnalysis) error {
	query := `
		UPDATE leads SET
			ai_relevance_score = $1,
			ai_identities = $2,
			ai_summary = $3,
			ai_analyzed_at = $4,
			updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		analysis.RelevanceScore,
		identitiesToArray(analysis.SuggestedIdentities),
		analysis.Summary,
		analysis.AnalyzedAt,
		id,
	)
	return err
}

func (r *LeadRepository) ListByAnnotated(ctx context.Context, annotated bool) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE is_annotated = $1 ORDER BY created_at DESC`, annotated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *LeadRepository) ListMissingAnalysis(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE ai_analyzed_at IS NULL ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var name, organization, teammateMet, xHandle, note sql.NullString
	var latitude, longitude, accuracy sql.NullFloat64
	var locationAt sql.NullTime
	var annText, annAudio, annPhoto, annBy, aiSummary sql.NullString
	var annAt, aiAt sql.NullTime
	var aiScore sql.NullInt64
	var annIdentities, aiIdentities pq.StringArray

	err := row.Scan(
		&lead.ID, &lead.Email, &name, &organization, &teammateMet, &xHandle, &note,
		&latitude, &longitude, &accuracy, &locationAt,
		&lead.IsAnnotated,
		&annText, &annAudio, &annPhoto,
		&annAt, &annBy, &annIdentities,
		&aiScore, &aiIdentities, &aiSummary, &aiAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead.Name = name.String
	lead.Organization = organization.String
	lead.TeammateMet = teammateMet.String
	lead.XHandle = xHandle.String
	lead.Note = note.String

	if locationAt.Valid {
		lead.Location = &entity.Location{
			Latitude:   latitude.Float64,
			Longitude:  longitude.Float64,
			Accuracy:   accuracy.Float64,
			CapturedAt: locationAt.Time,
		}
	}

	if annAt.Valid {
		lead.Annotation = &entity.AdminAnnotation{
			Text:       annText.String,
			AudioURL:   annAudio.String,
			PhotoURL:   annPhoto.String,
			CreatedAt:  annAt.Time,
			CreatedBy:  annBy.String,
			Identities: entity.ParseIdentities(annIdentities),
		}
	}

	if aiAt.Valid {
		lead.AIAnalysis = &entity.AIAnalysis{
			RelevanceScore:      int(aiScore.Int64),
			SuggestedIdentities: entity.ParseIdentities(aiIdentities),
			Summary:             aiSummary.String,
			AnalyzedAt:          aiAt.Time,
		}
	}

	return &lead, nil
}

func scanLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func identitiesToArray(ids []entity.Identity) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
