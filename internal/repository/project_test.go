package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

func TestProjectRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateProjectParams{
		Title:       "Task Management App",
		Description: "A productivity tool",
		Image:       "/uploads/1-abc-shot.png",
		Tags:        []string{"Vue.js", "Firebase"},
		Link:        "https://example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []string{"Vue.js", "Firebase"}, []string(found.Tags))

	t.Run("returns nil for unknown id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestProjectRepository_FindAllNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, model.CreateProjectParams{
			Title: title, Description: "d", Image: "https://img", Link: "#",
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	projects, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "third", projects[0].Title)
	assert.Equal(t, "first", projects[2].Title)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestProjectRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateProjectParams{
		Title: "old", Description: "old", Image: "https://old", Tags: []string{"a"}, Link: "#",
	})
	require.NoError(t, err)

	newImage := "https://new"
	updated, err := repo.Update(ctx, created.ID, model.UpdateProjectParams{
		Title: "new", Description: "new", Image: &newImage, Tags: []string{"b", "c"}, Link: "https://x",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "https://new", updated.Image)
	assert.Equal(t, "https://old", updated.PreviousImage)
	assert.True(t, updated.ImageReplaced())
	assert.Equal(t, []string{"b", "c"}, []string(updated.Tags))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	t.Run("nil image keeps the current one", func(t *testing.T) {
		kept, err := repo.Update(ctx, created.ID, model.UpdateProjectParams{
			Title: "newer", Description: "new", Tags: []string{}, Link: "#",
		})
		require.NoError(t, err)
		require.NotNil(t, kept)
		assert.Equal(t, "newer", kept.Title)
		assert.Equal(t, "https://new", kept.Image)
		assert.False(t, kept.ImageReplaced())
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		updated, err := repo.Update(ctx, "00000000-0000-0000-0000-000000000000", model.UpdateProjectParams{Title: "x"})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateProjectParams{
		Title: "gone", Description: "d", Image: "https://img", Link: "#",
	})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "https://img", deleted.Image)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestProjectRepository_CountByImage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	shared := "/uploads/1-abc-shot.png"
	for _, image := range []string{shared, shared, "https://img"} {
		_, err := repo.Create(ctx, model.CreateProjectParams{
			Title: "p", Description: "d", Image: image, Link: "#",
		})
		require.NoError(t, err)
	}

	count, err := repo.CountByImage(ctx, shared)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByImage(ctx, "/uploads/unused.png")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
