package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/service/servicetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tourFixture struct {
	*fixture
	svc   *TourService
	steps []model.TourStep
}

func newTourFixture(t *testing.T) *tourFixture {
	t.Helper()
	f := newFixture(t)

	intro := model.TourLesson{ID: uuid.New(), Slug: "intro", Title: "Intro", Position: 1}
	errLesson := model.TourLesson{ID: uuid.New(), Slug: "errors", Title: "Errors", Position: 2}
	steps := []model.TourStep{
		{ID: uuid.New(), LessonID: intro.ID, Position: 1, Title: "Hello"},
		{ID: uuid.New(), LessonID: intro.ID, Position: 2, Title: "Pipe"},
		{ID: uuid.New(), LessonID: errLesson.ID, Position: 1, Title: "Fail"},
	}

	store := servicetest.NewTour([]model.TourLesson{errLesson, intro}, steps)
	return &tourFixture{fixture: f, svc: NewTourService(f.userSvc, store), steps: steps}
}

func lessonSummary(o *model.ProgressOverview, slug string) model.LessonProgress {
	for _, l := range o.Lessons {
		if l.LessonSlug == slug {
			return l
		}
	}
	return model.LessonProgress{}
}

func TestTourLessons(t *testing.T) {
	f := newTourFixture(t)
	ctx := context.Background()

	lessons, err := f.svc.ListLessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "intro", lessons[0].Slug)
	assert.Equal(t, 2, lessons[0].StepCount)

	detail, err := f.svc.GetLesson(ctx, "intro")
	require.NoError(t, err)
	require.Len(t, detail.Steps, 2)
	assert.Equal(t, "Hello", detail.Steps[0].Title)

	_, err = f.svc.GetLesson(ctx, "missing")
	assert.True(t, isNotFound(err))
}

func TestUpdateProgress_NoDowngrade(t *testing.T) {
	f := newTourFixture(t)
	ctx := context.Background()
	step := f.steps[0].ID.String()

	p, err := f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: step, Status: model.ProgressCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	p, err = f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: step, Status: model.ProgressInProgress})
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, p.Status)
	assert.NotNil(t, p.CompletedAt)
}

func TestUpdateProgress_Errors(t *testing.T) {
	f := newTourFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: "nope", Status: model.ProgressCompleted})
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	_, err = f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: uuid.NewString(), Status: model.ProgressCompleted})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Tour step not found", httpErr.Message)
}

func TestSyncProgress(t *testing.T) {
	f := newTourFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: f.steps[0].ID.String(), Status: model.ProgressCompleted})
	require.NoError(t, err)
	_, err = f.svc.UpdateProgress(ctx, testClerkID, &model.UpdateProgressRequest{StepID: f.steps[2].ID.String(), Status: model.ProgressInProgress})
	require.NoError(t, err)

	local := []string{
		strings.ToUpper(f.steps[1].ID.String()),
		f.steps[1].ID.String(),
		f.steps[2].ID.String(),
		uuid.NewString(),
		"not-a-uuid",
	}

	overview, err := f.svc.SyncProgress(ctx, testClerkID, local)
	require.NoError(t, err)
	require.Len(t, overview.Steps, 3)
	for _, s := range overview.Steps {
		assert.Equal(t, model.ProgressCompleted, s.Status, "step %s", s.StepID)
	}
	assert.Equal(t, model.LessonProgress{LessonSlug: "intro", CompletedSteps: 2, TotalSteps: 2, Completed: true}, lessonSummary(overview, "intro"))
	assert.True(t, lessonSummary(overview, "errors").Completed)

	again, err := f.svc.SyncProgress(ctx, testClerkID, local)
	require.NoError(t, err)
	assert.Equal(t, overview, again)
}

func TestGetProgress_Empty(t *testing.T) {
	f := newTourFixture(t)

	overview, err := f.svc.GetProgress(context.Background(), testClerkID)
	require.NoError(t, err)
	assert.NotNil(t, overview.Steps)
	assert.Empty(t, overview.Steps)
	require.Len(t, overview.Lessons, 2)
	assert.False(t, lessonSummary(overview, "intro").Completed)
	assert.Equal(t, 2, lessonSummary(overview, "intro").TotalSteps)
}
