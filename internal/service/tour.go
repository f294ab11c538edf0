package service

import (
	"context"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/lib/utils"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/google/uuid"
)

type TourStore interface {
	ListLessons(ctx context.Context) ([]model.TourLesson, error)
	GetLessonBySlug(ctx context.Context, slug string) (*model.TourLesson, error)
	ListSteps(ctx context.Context, lessonID uuid.UUID) ([]model.TourStep, error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]model.StepProgress, error)
	UpsertProgress(ctx context.Context, userID, stepID uuid.UUID, status model.ProgressStatus) (*model.StepProgress, error)
	CompleteSteps(ctx context.Context, userID uuid.UUID, stepIDs []uuid.UUID) error
	ExistingStepIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type TourService struct {
	users UserResolver
	tour  TourStore
}

func NewTourService(users UserResolver, tour TourStore) *TourService {
	return &TourService{users: users, tour: tour}
}

func (s *TourService) ListLessons(ctx context.Context) ([]model.TourLesson, error) {
	lessons, err := s.tour.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []model.TourLesson{}
	}
	return lessons, nil
}

func (s *TourService) GetLesson(ctx context.Context, slug string) (*model.TourLessonDetail, error) {
	lesson, err := s.tour.GetLessonBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	steps, err := s.tour.ListSteps(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		steps = []model.TourStep{}
	}

	return &model.TourLessonDetail{TourLesson: *lesson, Steps: steps}, nil
}

func (s *TourService) GetProgress(ctx context.Context, clerkID string) (*model.ProgressOverview, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return s.overview(ctx, u.ID)
}

// UpdateProgress sets the status of one step. Moving a completed step back
// to in_progress is ignored and the completed state is returned.
func (s *TourService) UpdateProgress(ctx context.Context, clerkID string, req *model.UpdateProgressRequest) (*model.StepProgress, error) {
	stepID, err := uuid.Parse(req.StepID)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid step id", true, nil, []errs.FieldError{
			{Field: "step_id", Error: "must be a valid UUID"},
		}, nil)
	}

	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	known, err := s.tour.ExistingStepIDs(ctx, []uuid.UUID{stepID})
	if err != nil {
		return nil, err
	}
	if _, ok := known[stepID]; !ok {
		return nil, errs.NewNotFoundError("Tour step not found", true, nil)
	}

	return s.tour.UpsertProgress(ctx, u.ID, stepID, req.Status)
}

// SyncProgress merges steps completed while signed out. Unknown or
// malformed ids are ignored, nothing is downgraded, and repeating the call
// changes nothing.
func (s *TourService) SyncProgress(ctx context.Context, clerkID string, localStepIDs []string) (*model.ProgressOverview, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	progress, err := s.tour.ListProgress(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	var completed []string
	for _, p := range progress {
		if p.Status == model.ProgressCompleted {
			completed = append(completed, p.StepID.String())
		}
	}

	// Normalize ids so differently-cased duplicates collapse.
	local := make([]string, 0, len(localStepIDs))
	for _, raw := range localStepIDs {
		if id, err := uuid.Parse(raw); err == nil {
			local = append(local, id.String())
		}
	}

	// Union keeps server entries first, so anything past them is new.
	merged := utils.Union(completed, local)
	if len(merged) == len(completed) {
		return s.overviewFrom(ctx, progress)
	}

	toComplete := make([]uuid.UUID, 0, len(merged)-len(completed))
	for _, raw := range merged[len(completed):] {
		toComplete = append(toComplete, uuid.MustParse(raw))
	}

	if err := s.tour.CompleteSteps(ctx, u.ID, toComplete); err != nil {
		return nil, err
	}

	return s.overview(ctx, u.ID)
}

func (s *TourService) overview(ctx context.Context, userID uuid.UUID) (*model.ProgressOverview, error) {
	progress, err := s.tour.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.overviewFrom(ctx, progress)
}

// overviewFrom adds the per-lesson summary to a user's step progress.
func (s *TourService) overviewFrom(ctx context.Context, progress []model.StepProgress) (*model.ProgressOverview, error) {
	lessons, err := s.tour.ListLessons(ctx)
	if err != nil {
		return nil, err
	}

	completedByLesson := make(map[string]int, len(lessons))
	for _, p := range progress {
		if p.Status == model.ProgressCompleted {
			completedByLesson[p.LessonSlug]++
		}
	}

	summary := make([]model.LessonProgress, 0, len(lessons))
	for _, l := range lessons {
		done := completedByLesson[l.Slug]
		summary = append(summary, model.LessonProgress{
			LessonSlug:     l.Slug,
			CompletedSteps: done,
			TotalSteps:     l.StepCount,
			Completed:      l.StepCount > 0 && done >= l.StepCount,
		})
	}

	if progress == nil {
		progress = []model.StepProgress{}
	}

	return &model.ProgressOverview{Steps: progress, Lessons: summary}, nil
}
