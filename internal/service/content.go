package service

import (
	"context"
	"strings"

	"github.com/deppfellow/patternhub/internal/lib/utils"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/google/uuid"
)

type PatternStore interface {
	List(ctx context.Context, filter model.ContentFilter) ([]model.Pattern, int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Pattern, error)
	IDsBySlugs(ctx context.Context, slugs []string) (map[string]uuid.UUID, error)
}

type RuleStore interface {
	List(ctx context.Context, filter model.ContentFilter) ([]model.Rule, int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Rule, error)
}

type ContentService struct {
	patterns PatternStore
	rules    RuleStore
}

func NewContentService(patterns PatternStore, rules RuleStore) *ContentService {
	return &ContentService{patterns: patterns, rules: rules}
}

func (s *ContentService) ListPatterns(ctx context.Context, q *model.ListPatternsQuery) (*model.Page[model.Pattern], error) {
	page, limit, offset := utils.Paginate(q.Page, q.Limit)

	items, total, err := s.patterns.List(ctx, model.ContentFilter{
		Query:  strings.TrimSpace(q.Q),
		Tag:    strings.TrimSpace(q.Tag),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return newPage(items, page, limit, total), nil
}

func (s *ContentService) GetPattern(ctx context.Context, slug string) (*model.Pattern, error) {
	return s.patterns.GetBySlug(ctx, slug)
}

func (s *ContentService) ListRules(ctx context.Context, q *model.ListRulesQuery) (*model.Page[model.Rule], error) {
	page, limit, offset := utils.Paginate(q.Page, q.Limit)

	items, total, err := s.rules.List(ctx, model.ContentFilter{
		Query:    strings.TrimSpace(q.Q),
		Tag:      strings.TrimSpace(q.Tag),
		Category: strings.TrimSpace(q.Category),
		Severity: q.Severity,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	return newPage(items, page, limit, total), nil
}

func (s *ContentService) GetRule(ctx context.Context, slug string) (*model.Rule, error) {
	return s.rules.GetBySlug(ctx, slug)
}

func newPage[T any](items []T, page, limit, total int) *model.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &model.Page[T]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: utils.TotalPages(total, limit),
	}
}
