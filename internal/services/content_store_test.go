package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
)

func newContent(slug string) *models.Content {
	return &models.Content{Slug: slug, Title: "Title " + slug, Body: "Body", Category: "news"}
}

func TestContentStoreCreateAndFind(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableBlogs)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newContent("hello-world")))

	got, err := store.FindBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Title hello-world", got.Title)
	assert.Nil(t, got.Image)

	exists, err := store.Exists(ctx, "hello-world")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentStoreDuplicateSlug(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableBlogs)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newContent("dup")))
	err := store.Create(ctx, newContent("dup"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestContentStoreTablesAreIndependent(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	for _, table := range models.ContentTables {
		require.NoError(t, NewContentStore(gdb, table).Create(ctx, newContent("shared")), table)
	}
}

func TestContentStoreUpdatePartial(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableDraftBlogs)
	ctx := context.Background()

	original := newContent("post")
	original.MetaDescription = "keep me"
	require.NoError(t, store.Create(ctx, original))
	time.Sleep(10 * time.Millisecond)

	updated, err := store.Update(ctx, "post", models.ContentPatch{Title: strPtr("New title")})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Body", updated.Body)
	assert.Equal(t, "news", updated.Category)
	assert.Equal(t, "keep me", updated.MetaDescription)
	assert.Equal(t, "post", updated.Slug)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
}

func TestContentStoreUpdateClearsImage(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableDraftBlogs)
	ctx := context.Background()

	c := newContent("post")
	c.Image = strPtr("https://cdn.test/blogs/a.png")
	require.NoError(t, store.Create(ctx, c))

	updated, err := store.Update(ctx, "post", models.ContentPatch{Image: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Image)
}

func TestContentStoreUpdateMissing(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableDraftBlogs)

	_, err := store.Update(context.Background(), "missing", models.ContentPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentStoreDeleteIsIdempotent(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableServices)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newContent("gone")))

	deleted, err := store.Delete(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", deleted.Slug)

	_, err = store.Delete(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindBySlug(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentStoreListNewestFirst(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableBlogs)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		c := newContent(slug)
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Create(ctx, c))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Slug)
	assert.Equal(t, "middle", list[1].Slug)
	assert.Equal(t, "oldest", list[2].Slug)
}

func TestContentStoreUpsert(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableBlogs)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	first := newContent("post")
	first.CreatedAt = created
	first.UpdatedAt = created
	first.Image = strPtr("https://cdn.test/blogs/a.png")
	require.NoError(t, store.Upsert(ctx, first))

	stored, err := store.FindBySlug(ctx, "post")
	require.NoError(t, err)

	later := created.Add(24 * time.Hour)
	second := &models.Content{Slug: "post", Title: "Replaced", Body: "New body", Category: "tips"}
	second.CreatedAt = later
	second.UpdatedAt = later
	require.NoError(t, store.Upsert(ctx, second))

	replaced, err := store.FindBySlug(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, replaced.ID)
	assert.True(t, replaced.CreatedAt.Equal(created))
	assert.True(t, replaced.UpdatedAt.Equal(later))
	assert.Equal(t, "Replaced", replaced.Title)
	assert.Equal(t, "tips", replaced.Category)
	assert.Nil(t, replaced.Image, "upsert replaces every content column")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContentStoreReferencesImage(t *testing.T) {
	store := NewContentStore(newTestDB(t), models.TableBlogs)
	ctx := context.Background()

	c := newContent("post")
	c.Image = strPtr("https://cdn.test/blogs/a.png")
	require.NoError(t, store.Create(ctx, c))

	inUse, err := store.ReferencesImage(ctx, "https://cdn.test/blogs/a.png")
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = store.ReferencesImage(ctx, "https://cdn.test/blogs/b.png")
	require.NoError(t, err)
	assert.False(t, inUse)
}
