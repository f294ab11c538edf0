package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TourRepository struct {
	server *server.Server
}

func NewTourRepository(s *server.Server) *TourRepository {
	return &TourRepository{server: s}
}

const lessonSelect = `
	SELECT
		l.id, l.slug, l.title, l.description, l.position, l.created_at,
		(SELECT COUNT(*) FROM tour_steps s WHERE s.lesson_id = l.id)::int AS step_count
	FROM tour_lessons l
`

func (r *TourRepository) ListLessons(ctx context.Context) ([]model.TourLesson, error) {
	rows, err := r.server.DB.Pool.Query(ctx, lessonSelect+` ORDER BY l.position ASC, l.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list lessons query: %w", err)
	}

	lessons, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TourLesson])
	if err != nil {
		return nil, fmt.Errorf("failed to collect lessons: %w", err)
	}

	return lessons, nil
}

func (r *TourRepository) GetLessonBySlug(ctx context.Context, slug string) (*model.TourLesson, error) {
	rows, err := r.server.DB.Pool.Query(ctx, lessonSelect+` WHERE l.slug = @slug`, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get lesson query for slug=%s: %w", slug, err)
	}

	lesson, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TourLesson])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("tour_lessons", "slug "+slug)
		}
		return nil, fmt.Errorf("failed to collect lesson for slug=%s: %w", slug, err)
	}

	return &lesson, nil
}

func (r *TourRepository) ListSteps(ctx context.Context, lessonID uuid.UUID) ([]model.TourStep, error) {
	stmt := `
		SELECT id, lesson_id, position, title, instruction, code_sample
		FROM tour_steps
		WHERE lesson_id = @lesson_id
		ORDER BY position ASC
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"lesson_id": lessonID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list steps query for lesson_id=%s: %w", lessonID, err)
	}

	steps, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TourStep])
	if err != nil {
		return nil, fmt.Errorf("failed to collect steps for lesson_id=%s: %w", lessonID, err)
	}

	return steps, nil
}

// progressSelect joins progress rows with their lesson slug. It expects a
// CTE or table aliased "p" with step_id, status, completed_at and updated_at.
const progressSelect = `
	SELECT p.step_id, l.slug AS lesson_slug, p.status, p.completed_at, p.updated_at
	FROM %s p
	JOIN tour_steps s ON s.id = p.step_id
	JOIN tour_lessons l ON l.id = s.lesson_id
`

func (r *TourRepository) ListProgress(ctx context.Context, userID uuid.UUID) ([]model.StepProgress, error) {
	stmt := fmt.Sprintf(progressSelect, "tour_progress") + `
		WHERE p.user_id = @user_id
		ORDER BY l.position ASC, s.position ASC
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list progress query for user_id=%s: %w", userID, err)
	}

	progress, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.StepProgress])
	if err != nil {
		return nil, fmt.Errorf("failed to collect progress for user_id=%s: %w", userID, err)
	}

	return progress, nil
}

// UpsertProgress records a status for one step. A completed step stays
// completed and keeps its original completion time.
func (r *TourRepository) UpsertProgress(ctx context.Context, userID, stepID uuid.UUID, status model.ProgressStatus) (*model.StepProgress, error) {
	stmt := `
		WITH upserted AS (
			INSERT INTO tour_progress (user_id, step_id, status, completed_at)
			VALUES (
				@user_id,
				@step_id,
				@status,
				CASE WHEN @status = 'completed' THEN NOW() END
			)
			ON CONFLICT (user_id, step_id) DO UPDATE SET
				status = CASE
					WHEN tour_progress.status = 'completed' THEN tour_progress.status
					ELSE EXCLUDED.status
				END,
				completed_at = COALESCE(tour_progress.completed_at, EXCLUDED.completed_at)
			RETURNING step_id, status, completed_at, updated_at
		)
	` + fmt.Sprintf(progressSelect, "upserted")

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"user_id": userID,
		"step_id": stepID,
		"status":  string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute upsert progress for step_id=%s: %w", stepID, err)
	}

	progress, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StepProgress])
	if err != nil {
		return nil, fmt.Errorf("failed to collect progress for step_id=%s: %w", stepID, err)
	}

	return &progress, nil
}

// CompleteSteps marks every known step in stepIDs completed. Unknown ids are
// skipped by the join on tour_steps.
func (r *TourRepository) CompleteSteps(ctx context.Context, userID uuid.UUID, stepIDs []uuid.UUID) error {
	if len(stepIDs) == 0 {
		return nil
	}

	stmt := `
		INSERT INTO tour_progress (user_id, step_id, status, completed_at)
		SELECT @user_id, s.id, 'completed', NOW()
		FROM tour_steps s
		WHERE s.id = ANY(@step_ids::uuid[])
		ON CONFLICT (user_id, step_id) DO UPDATE SET
			status = 'completed',
			completed_at = COALESCE(tour_progress.completed_at, EXCLUDED.completed_at)
		WHERE tour_progress.status <> 'completed'
	`

	_, err := r.server.DB.Pool.Exec(ctx, stmt, pgx.NamedArgs{
		"user_id":  userID,
		"step_ids": stepIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to complete steps for user_id=%s: %w", userID, err)
	}

	return nil
}

// ExistingStepIDs returns the subset of ids that are real steps.
func (r *TourRepository) ExistingStepIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.server.DB.Pool.Query(ctx,
		`SELECT id FROM tour_steps WHERE id = ANY(@ids::uuid[])`,
		pgx.NamedArgs{"ids": ids},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute step lookup: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to collect step ids: %w", err)
	}

	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}
