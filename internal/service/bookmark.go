package service

import (
	"context"

	"github.com/deppfellow/patternhub/internal/lib/utils"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/google/uuid"
)

type BookmarkStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error)
	AddMany(ctx context.Context, userID uuid.UUID, patternIDs []uuid.UUID) error
	RemoveBySlug(ctx context.Context, userID uuid.UUID, slug string) error
}

type BookmarkService struct {
	users     UserResolver
	bookmarks BookmarkStore
	patterns  PatternStore
}

func NewBookmarkService(users UserResolver, bookmarks BookmarkStore, patterns PatternStore) *BookmarkService {
	return &BookmarkService{users: users, bookmarks: bookmarks, patterns: patterns}
}

func (s *BookmarkService) List(ctx context.Context, clerkID string) (*model.BookmarkList, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, u.ID)
}

func (s *BookmarkService) list(ctx context.Context, userID uuid.UUID) (*model.BookmarkList, error) {
	items, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Bookmark{}
	}
	return &model.BookmarkList{Items: items}, nil
}

// Add bookmarks a pattern. Adding an existing bookmark returns it unchanged.
func (s *BookmarkService) Add(ctx context.Context, clerkID, slug string) (*model.Bookmark, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	pattern, err := s.patterns.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.bookmarks.AddMany(ctx, u.ID, []uuid.UUID{pattern.ID}); err != nil {
		return nil, err
	}

	list, err := s.list(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	for i := range list.Items {
		if list.Items[i].PatternID == pattern.ID {
			return &list.Items[i], nil
		}
	}

	// Deleted concurrently between insert and read.
	return &model.Bookmark{
		PatternID:    pattern.ID,
		PatternSlug:  pattern.Slug,
		PatternTitle: pattern.Title,
		Description:  pattern.Description,
		Tags:         pattern.Tags,
		Difficulty:   pattern.Difficulty,
	}, nil
}

func (s *BookmarkService) Remove(ctx context.Context, clerkID, slug string) error {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return err
	}
	return s.bookmarks.RemoveBySlug(ctx, u.ID, slug)
}

// Sync merges bookmarks saved while signed out into the account. Server
// bookmarks are never removed, unknown slugs are ignored, and repeating the
// call with the same input changes nothing.
func (s *BookmarkService) Sync(ctx context.Context, clerkID string, localSlugs []string) (*model.BookmarkList, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	current, err := s.list(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	serverSlugs := make([]string, 0, len(current.Items))
	for _, b := range current.Items {
		serverSlugs = append(serverSlugs, b.PatternSlug)
	}

	missing := utils.Missing(serverSlugs, localSlugs)
	if len(missing) == 0 {
		return current, nil
	}

	ids, err := s.patterns.IDsBySlugs(ctx, missing)
	if err != nil {
		return nil, err
	}

	toAdd := make([]uuid.UUID, 0, len(ids))
	for _, slug := range missing {
		if id, ok := ids[slug]; ok {
			toAdd = append(toAdd, id)
		}
	}

	if err := s.bookmarks.AddMany(ctx, u.ID, toAdd); err != nil {
		return nil, err
	}

	return s.list(ctx, u.ID)
}
