package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
)

func helloWorld() ContentInput {
	return ContentInput{Title: "Hello World", Body: "First post", Category: "news"}
}

func TestHelloWorldLifecycle(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	draft, err := f.content.CreateDraft(ctx, helloWorld(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", draft.Slug)

	second, err := f.content.CreateDraft(ctx, helloWorld(), nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^hello-world-\d+$`), second.Slug)

	res, err := f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.PromotionCreated, res.Outcome)

	published, err := f.content.GetPublished(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", published.Title)
	assert.Equal(t, "First post", published.Body)
	assert.True(t, published.CreatedAt.Equal(draft.CreatedAt))

	res, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{Title: strPtr("Hello, World!")}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.PromotionUpdated, res.Outcome)

	published, err = f.content.GetPublished(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", published.Title)
	assert.Equal(t, "hello-world", published.Slug)

	_, err = f.content.GetDraft(ctx, "hello-world")
	assert.NoError(t, err, "draft is retained after promotion")
}

func TestCreatePublishedUsesSequentialSlugs(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	var slugs []string
	for range 3 {
		c, err := f.content.CreatePublished(ctx, helloWorld(), nil)
		require.NoError(t, err)
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"hello-world", "hello-world-1", "hello-world-2"}, slugs)
}

func TestCreatePublishedDefaultsMetaTitle(t *testing.T) {
	f := newBlogFixture(t)

	c, err := f.content.CreatePublished(context.Background(), helloWorld(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", c.MetaTitle)
	assert.Equal(t, "", c.MetaDescription)
	assert.Equal(t, "", c.FocusKeyword)
}

func TestCreateUsesExplicitSlug(t *testing.T) {
	f := newBlogFixture(t)

	in := helloWorld()
	in.Slug = "Custom Slug!"
	c, err := f.content.CreateDraft(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", c.Slug)
}

func TestCreateValidation(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ContentInput
	}{
		{"missing title", ContentInput{Body: "b", Category: "c"}},
		{"missing body", ContentInput{Title: "t", Category: "c"}},
		{"blank category", ContentInput{Title: "t", Body: "b", Category: "   "}},
		{"title without letters", ContentInput{Title: "!!!", Body: "b", Category: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.content.CreateDraft(ctx, tt.in, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	drafts, err := f.content.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestCreateRejectsForeignImageRefs(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	for name, ref := range map[string]string{
		"not a url":  "not a url at all",
		"script":     "javascript:alert(1)",
		"other host": "https://evil.example.com/x.png",
		"relative":   "/blogs/x.png",
		"ftp":        "ftp://cdn.test/blogs/x.png",
	} {
		t.Run(name, func(t *testing.T) {
			in := helloWorld()
			in.Image = ref
			_, err := f.content.CreateDraft(ctx, in, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	in := helloWorld()
	in.Image = "https://cdn.test/blogs/x.png"
	c, err := f.content.CreateDraft(ctx, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/blogs/x.png", c.ImageURL())
}

func TestUpdateRejectsForeignImageRef(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "old.png", []byte("a")))
	require.NoError(t, err)

	_, err = f.content.UpdateDraft(ctx, "hello-world", models.ContentPatch{Image: strPtr("javascript:alert(1)")}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	draft, err := f.content.GetDraft(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/blogs/old.png", draft.ImageURL())
	assert.Empty(t, f.storage.Deleted())

	// an empty ref clears the image
	updated, err := f.content.UpdateDraft(ctx, "hello-world", models.ContentPatch{Image: strPtr("")}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.ImageURL())
}

func TestCreateRetriesSlugTakenConcurrently(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreatePublished(ctx, helloWorld(), nil)
	require.NoError(t, err)

	stale := &staleStore{ContentStore: f.published, misses: 1}
	svc := NewContentService(models.KindBlog, f.drafts, stale, f.images, ContentOptions{SlugRetries: 3})

	c, err := svc.CreatePublished(ctx, helloWorld(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", c.Slug)
}

func TestCreateGivesUpAfterSlugRetries(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreatePublished(ctx, helloWorld(), nil)
	require.NoError(t, err)

	stale := &staleStore{ContentStore: f.published, misses: -1}
	svc := NewContentService(models.KindBlog, f.drafts, stale, f.images, ContentOptions{SlugRetries: 2})

	_, err = svc.CreatePublished(ctx, helloWorld(), fileHeader(t, "cover.png", []byte("png")))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{"https://cdn.test/blogs/cover.png"}, f.storage.Deleted())

	list, err := f.content.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateStoreFailureDiscardsUpload(t *testing.T) {
	f := newBlogFixture(t)
	broken := &failingStore{ContentStore: f.drafts, createErr: errStoreDown}
	svc := NewContentService(models.KindBlog, broken, f.published, f.images, ContentOptions{})

	_, err := svc.CreateDraft(context.Background(), helloWorld(), fileHeader(t, "cover.png", []byte("png")))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"https://cdn.test/blogs/cover.png"}, f.storage.Deleted())
}

func TestCreateWithImage(t *testing.T) {
	f := newBlogFixture(t)

	c, err := f.content.CreateDraft(context.Background(), helloWorld(), fileHeader(t, "cover.png", []byte("png")))
	require.NoError(t, err)
	require.NotNil(t, c.Image)
	assert.Equal(t, "https://cdn.test/blogs/cover.png", *c.Image)
}

func TestCreateWithoutStorage(t *testing.T) {
	f := newBlogFixture(t)
	svc := NewContentService(models.KindBlog, f.drafts, f.published, NewImageManager(nil, 0), ContentOptions{})

	_, err := svc.CreateDraft(context.Background(), helloWorld(), fileHeader(t, "cover.png", []byte("png")))
	assert.ErrorIs(t, err, ErrInternal)

	c, err := svc.CreateDraft(context.Background(), helloWorld(), nil)
	require.NoError(t, err)
	assert.Nil(t, c.Image)
}

func TestUpdateDraftMergesAndReplacesImage(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "old.png", []byte("a")))
	require.NoError(t, err)

	updated, err := f.content.UpdateDraft(ctx, "hello-world",
		models.ContentPatch{Category: strPtr("guides")}, fileHeader(t, "new.png", []byte("b")))
	require.NoError(t, err)

	assert.Equal(t, "Hello World", updated.Title)
	assert.Equal(t, "guides", updated.Category)
	assert.Equal(t, "https://cdn.test/blogs/new.png", updated.ImageURL())
	assert.Equal(t, []string{"https://cdn.test/blogs/old.png"}, f.storage.Deleted())
}

func TestUpdateKeepsImageSharedWithPublished(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "old.png", []byte("a")))
	require.NoError(t, err)
	_, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)

	_, err = f.content.UpdateDraft(ctx, "hello-world", models.ContentPatch{}, fileHeader(t, "new.png", []byte("b")))
	require.NoError(t, err)

	assert.Empty(t, f.storage.Deleted(), "published copy still uses the old image")
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.UpdateDraft(ctx, "missing", models.ContentPatch{Title: strPtr("x")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.content.CreateDraft(ctx, helloWorld(), nil)
	require.NoError(t, err)
	_, err = f.content.UpdateDraft(ctx, "hello-world", models.ContentPatch{Title: strPtr("  ")}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteDraftRemovesBothCopies(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "cover.png", []byte("a")))
	require.NoError(t, err)
	_, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)

	require.NoError(t, f.content.DeleteDraft(ctx, "hello-world"))

	_, err = f.content.GetDraft(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.content.GetPublished(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"https://cdn.test/blogs/cover.png"}, f.storage.Deleted())

	err = f.content.DeleteDraft(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDraftWithOnlyPublishedCopy(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreatePublished(ctx, helloWorld(), nil)
	require.NoError(t, err)

	require.NoError(t, f.content.DeleteDraft(ctx, "hello-world"))
	_, err = f.content.GetPublished(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDraftRollsBackOnFailure(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "cover.png", []byte("a")))
	require.NoError(t, err)
	_, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)

	failDrafts := true
	draftTable := f.drafts.Table()
	require.NoError(t, f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_draft_delete", func(tx *gorm.DB) {
		if failDrafts && tx.Statement.Table == draftTable {
			tx.AddError(errStoreDown)
		}
	}))

	err = f.content.DeleteDraft(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrInternal)

	_, err = f.content.GetDraft(ctx, "hello-world")
	assert.NoError(t, err)
	_, err = f.content.GetPublished(ctx, "hello-world")
	assert.NoError(t, err, "published delete was rolled back")
	assert.Empty(t, f.storage.Deleted())

	failDrafts = false
	require.NoError(t, f.content.DeleteDraft(ctx, "hello-world"))
	assert.Equal(t, []string{"https://cdn.test/blogs/cover.png"}, f.storage.Deleted())
}

func TestDeleteDraftPartialFailureKeepsDraft(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), fileHeader(t, "cover.png", []byte("a")))
	require.NoError(t, err)
	_, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)

	broken := &failingStore{ContentStore: f.drafts, deleteErr: errStoreDown}
	svc := NewContentService(models.KindBlog, broken, f.published, f.images, ContentOptions{})

	err = svc.DeleteDraft(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrInternal)

	draft, err := f.content.GetDraft(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/blogs/cover.png", draft.ImageURL())
	assert.Empty(t, f.storage.Deleted(), "draft still references the image")

	require.NoError(t, f.content.DeleteDraft(ctx, "hello-world"))
	assert.Equal(t, []string{"https://cdn.test/blogs/cover.png"}, f.storage.Deleted())
}

func TestDeletePublishedKeepsDraft(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateDraft(ctx, helloWorld(), nil)
	require.NoError(t, err)
	_, err = f.publisher.Promote(ctx, "hello-world", models.ContentPatch{}, adminClaims())
	require.NoError(t, err)

	_, err = f.content.DeletePublished(ctx, "hello-world")
	require.NoError(t, err)

	_, err = f.content.GetDraft(ctx, "hello-world")
	assert.NoError(t, err)

	_, err = f.content.DeletePublished(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsEmptySlice(t *testing.T) {
	f := newBlogFixture(t)

	list, err := f.content.ListPublished(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
