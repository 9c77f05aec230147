package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"medcollab/internal/domain"
)

type CaseRepository interface {
	Create(ctx context.Context, c *domain.CollaborationCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CollaborationCase, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error)
	ListByPatient(ctx context.Context, patientID string, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error)
	AddCollaborator(ctx context.Context, id uuid.UUID, doctorID string) error
	Close(ctx context.Context, id uuid.UUID, decision domain.FinalDecision) error
	CountOpenByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
	CountOpenByPatient(ctx context.Context, patientID string) (int64, error)
}

type caseRepository struct {
	db *sqlx.DB
}

func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{db: db}
}

// caseRow flattens the optional final decision for scanning.
type caseRow struct {
	domain.CollaborationCase
	DecisionDoctorID *string `db:"decision_doctor_id"`
	DecisionContent  *string `db:"decision_content"`
}

func (row *caseRow) toCase() domain.CollaborationCase {
	c := row.CollaborationCase
	if row.DecisionDoctorID != nil && row.DecisionContent != nil {
		c.FinalDecision = &domain.FinalDecision{
			DoctorID: *row.DecisionDoctorID,
			Content:  *row.DecisionContent,
		}
	}
	return c
}

func (r *caseRepository) Create(ctx context.Context, c *domain.CollaborationCase) error {
	query := `
		INSERT INTO collaboration_cases (case_id, title, patient_id, record_id, description, status, created_by, collaborators)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		c.ID, c.Title, c.PatientID, c.RecordID, c.Description, c.Status, c.CreatedBy, pq.Array(c.Collaborators),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CollaborationCase, error) {
	var row caseRow
	query := `SELECT * FROM collaboration_cases WHERE case_id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.toCase()
	return &c, nil
}

func (r *caseRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error) {
	params.Validate()

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM collaboration_cases
		WHERE created_by = $1 OR $2 = ANY(collaborators)`
	if err := r.db.GetContext(ctx, &total, countQuery, doctorID, doctorID.String()); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM collaboration_cases
		WHERE created_by = $1 OR $2 = ANY(collaborators)
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4`

	var rows []caseRow
	if err := r.db.SelectContext(ctx, &rows, query, doctorID, doctorID.String(), params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	cases := make([]domain.CollaborationCase, 0, len(rows))
	for i := range rows {
		cases = append(cases, rows[i].toCase())
	}
	return cases, total, nil
}

func (r *caseRepository) ListByPatient(ctx context.Context, patientID string, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM collaboration_cases WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, patientID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM collaboration_cases
		WHERE patient_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	var rows []caseRow
	if err := r.db.SelectContext(ctx, &rows, query, patientID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	cases := make([]domain.CollaborationCase, 0, len(rows))
	for i := range rows {
		cases = append(cases, rows[i].toCase())
	}
	return cases, total, nil
}

func (r *caseRepository) AddCollaborator(ctx context.Context, id uuid.UUID, doctorID string) error {
	query := `
		UPDATE collaboration_cases
		SET collaborators = array_append(collaborators, $2), updated_at = NOW()
		WHERE case_id = $1 AND NOT ($2 = ANY(collaborators)) AND status != 'Closed'`
	_, err := r.db.ExecContext(ctx, query, id, doctorID)
	return err
}

func (r *caseRepository) Close(ctx context.Context, id uuid.UUID, decision domain.FinalDecision) error {
	query := `
		UPDATE collaboration_cases
		SET status = 'Closed', decision_doctor_id = $2, decision_content = $3,
			closed_at = NOW(), updated_at = NOW()
		WHERE case_id = $1 AND status != 'Closed'`

	res, err := r.db.ExecContext(ctx, query, id, decision.DoctorID, decision.Content)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("case not found or already closed")
	}
	return nil
}

func (r *caseRepository) CountOpenByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM collaboration_cases
		WHERE (created_by = $1 OR $2 = ANY(collaborators)) AND status != 'Closed'`
	err := r.db.GetContext(ctx, &count, query, doctorID, doctorID.String())
	return count, err
}

func (r *caseRepository) CountOpenByPatient(ctx context.Context, patientID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM collaboration_cases WHERE patient_id = $1 AND status != 'Closed'`
	err := r.db.GetContext(ctx, &count, query, patientID)
	return count, err
}
