package repository

import (
	"context"
	"testing"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_SeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	seed := []domain.Category{
		{NameAr: "تقنية", NameEn: "Technology", Slug: "technology"},
		{NameAr: "علوم", NameEn: "Science", Slug: "science"},
	}

	require.NoError(t, repo.Seed(ctx, seed))
	require.NoError(t, repo.Seed(ctx, []domain.Category{{NameAr: "تقنية", Slug: "technology"}}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	c, err := repo.FindBySlug(ctx, "science")
	require.NoError(t, err)
	assert.Equal(t, "Science", c.NameEn)

	ok, err := repo.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAttachmentRepository_LinkOnlyOwnUnlinked(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttachmentRepository(db)
	ctx := context.Background()

	mine := &domain.Attachment{UploaderID: 1, StorageKey: "k1", URL: "u1"}
	theirs := &domain.Attachment{UploaderID: 2, StorageKey: "k2", URL: "u2"}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	n, err := repo.Link(ctx, 1, 50, []uint64{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Link(ctx, 1, 51, []uint64{mine.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := repo.ListBySubmission(ctx, 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)
}
