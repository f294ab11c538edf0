package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(t *testing.T, f *fixture) []string {
	t.Helper()
	list, err := f.bookmarks.List(context.Background(), testClerkID)
	require.NoError(t, err)
	out := make([]string, 0, len(list.Items))
	for _, b := range list.Items {
		out = append(out, b.PatternSlug)
	}
	return out
}

func TestBookmarkAdd_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.bookmarks.Add(ctx, testClerkID, "effect-gen")
	require.NoError(t, err)
	assert.Equal(t, "Effect.gen", first.PatternTitle)

	again, err := f.bookmarks.Add(ctx, testClerkID, "effect-gen")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	assert.Equal(t, []string{"effect-gen"}, slugs(t, f))
}

func TestBookmarkAdd_UnknownPattern(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookmarks.Add(context.Background(), testClerkID, "does-not-exist")
	assert.True(t, isNotFound(err))
}

func TestBookmarkRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookmarks.Add(ctx, testClerkID, "effect-gen")
	require.NoError(t, err)

	require.NoError(t, f.bookmarks.Remove(ctx, testClerkID, "effect-gen"))
	// Removing twice is not an error.
	require.NoError(t, f.bookmarks.Remove(ctx, testClerkID, "effect-gen"))

	assert.Empty(t, slugs(t, f))
}

func TestBookmarkSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookmarks.Add(ctx, testClerkID, "effect-gen")
	require.NoError(t, err)

	local := []string{"retry-policy", "unknown-slug", "effect-gen", " layer-basics ", "retry-policy"}

	list, err := f.bookmarks.Sync(ctx, testClerkID, local)
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.ElementsMatch(t, []string{"effect-gen", "retry-policy", "layer-basics"}, slugs(t, f))

	again, err := f.bookmarks.Sync(ctx, testClerkID, local)
	require.NoError(t, err)
	assert.Equal(t, list.Items, again.Items)
}

func TestBookmarkSync_NeverRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookmarks.Add(ctx, testClerkID, "layer-basics")
	require.NoError(t, err)

	list, err := f.bookmarks.Sync(ctx, testClerkID, nil)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "layer-basics", list.Items[0].PatternSlug)
}
