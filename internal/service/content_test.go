package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPatterns(t *testing.T) {
	f := newFixture(t)
	svc := NewContentService(f.content.PatternStore(), f.content.RuleStore())
	ctx := context.Background()

	page, err := svc.ListPatterns(ctx, &model.ListPatternsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	page, err = svc.ListPatterns(ctx, &model.ListPatternsQuery{Tag: " core ", Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "layer-basics", page.Items[0].Slug)

	page, err = svc.ListPatterns(ctx, &model.ListPatternsQuery{Q: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListRules_Filters(t *testing.T) {
	f := newFixture(t)
	svc := NewContentService(f.content.PatternStore(), f.content.RuleStore())

	page, err := svc.ListRules(context.Background(), &model.ListRulesQuery{Severity: "error"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "no-run-sync", page.Items[0].Slug)

	page, err = svc.ListRules(context.Background(), &model.ListRulesQuery{Category: "style", Tag: "core"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "prefer-gen", page.Items[0].Slug)
}

func TestGetPattern_NotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewContentService(f.content.PatternStore(), f.content.RuleStore())

	p, err := svc.GetPattern(context.Background(), "effect-gen")
	require.NoError(t, err)
	assert.Equal(t, "Effect.gen", p.Title)

	_, err = svc.GetRule(context.Background(), "missing")
	require.Error(t, err)

	httpErr, ok := sqlerr.HandleError(err).(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Rule not found", httpErr.Message)
}
