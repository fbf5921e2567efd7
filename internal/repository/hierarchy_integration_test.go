//go:build integration

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/deppfellow/hierarchy-api/internal/errs"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/deppfellow/hierarchy-api/internal/sqlerr"
	"github.com/deppfellow/hierarchy-api/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) HierarchyRepository {
	t.Helper()

	db := testhelpers.GetTestDB(t)
	db.Truncate(t)

	return NewHierarchyRepository(db.Pool)
}

func createMetadata(t *testing.T, repo HierarchyRepository, version string, status model.Status) *model.HierarchyMetadata {
	t.Helper()

	metadata, err := repo.CreateMetadata(context.Background(), model.CreateMetadataParams{
		UserInput: model.Document{"company": "Acme", "location": "Berlin"},
		Version:   version,
		Status:    status,
	})
	require.NoError(t, err)
	return metadata
}

func TestHierarchyRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	metadata := createMetadata(t, repo, model.DefaultVersion, model.StatusInDraft)
	assert.NotEqual(t, uuid.Nil, metadata.ID)
	assert.Equal(t, model.StatusInDraft, metadata.Status)
	assert.Nil(t, metadata.UserFeedback)
	assert.False(t, metadata.CreatedAt.IsZero())

	doc := json.RawMessage(`{"name":"root","children":[{"name":"leaf","weight":1.5}],"flag":true,"nothing":null}`)

	first, err := repo.CreateData(ctx, metadata.ID, doc)
	require.NoError(t, err)
	second, err := repo.CreateData(ctx, metadata.ID, json.RawMessage(`[{"name":"second"},{"name":"third"}]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"second"},{"name":"third"}]`, string(second.Data))

	rows, err := repo.GetDataByMetadataID(ctx, metadata.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID, "newest first")
	assert.Equal(t, first.ID, rows[1].ID)
	assert.JSONEq(t, string(doc), string(rows[1].Data))

	got, err := repo.GetMetadataByID(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata.UserInput, got.UserInput)

	missing, err := repo.GetMetadataByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHierarchyRepository_CreateDataUnknownMetadata(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.CreateData(context.Background(), uuid.New(), json.RawMessage(`{"a":1}`))
	require.Error(t, err)
	assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.ErrCode(err))
}

func TestHierarchyRepository_UpdateMetadata(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	metadata := createMetadata(t, repo, "v1", model.StatusInDraft)

	approved := model.StatusApproved
	updated, err := repo.UpdateMetadata(ctx, metadata.ID, model.MetadataUpdate{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.Equal(t, "v1", updated.Version)
	assert.Nil(t, updated.UserFeedback)
	assert.True(t, updated.UpdatedAt.After(metadata.UpdatedAt))

	feedback, version := "tighten level 2", "v2"
	updated, err = repo.UpdateMetadata(ctx, metadata.ID, model.MetadataUpdate{UserFeedback: &feedback, Version: &version})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.Equal(t, "v2", updated.Version)
	assert.Equal(t, feedback, *updated.UserFeedback)

	updated, err = repo.UpdateMetadata(ctx, metadata.ID, model.MetadataUpdate{ClearUserFeedback: true})
	require.NoError(t, err)
	assert.Nil(t, updated.UserFeedback)
	assert.Equal(t, "v2", updated.Version)

	_, err = repo.UpdateMetadata(ctx, metadata.ID, model.MetadataUpdate{})
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 400, httpErr.Status)

	missing, err := repo.UpdateMetadata(ctx, uuid.New(), model.MetadataUpdate{Status: &approved})
	require.NoError(t, err)
	assert.Nil(t, missing)

	invalid := model.Status("archived")
	_, err = repo.UpdateMetadata(ctx, metadata.ID, model.MetadataUpdate{Status: &invalid})
	assert.Equal(t, sqlerr.CheckViolation, sqlerr.ErrCode(err))
}

func TestHierarchyRepository_ListMetadata(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		status := model.StatusInDraft
		if i%3 == 0 {
			status = model.StatusApproved
		}
		createMetadata(t, repo, "v0", status)
	}

	page, err := repo.ListMetadata(ctx, model.MetadataFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Items, 10)

	rest, err := repo.ListMetadata(ctx, model.MetadataFilter{}, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, rest.Total)
	assert.Len(t, rest.Items, 5)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(page.Items, rest.Items...) {
		assert.False(t, seen[item.ID])
		seen[item.ID] = true
	}
	assert.True(t, page.Items[0].CreatedAt.After(rest.Items[4].CreatedAt))

	approved := model.StatusApproved
	filtered, err := repo.ListMetadata(ctx, model.MetadataFilter{Status: &approved}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, filtered.Total)

	version := "v9"
	none, err := repo.ListMetadata(ctx, model.MetadataFilter{Status: &approved, Version: &version}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.Empty(t, none.Items)
}

func TestHierarchyRepository_DeleteCascades(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	metadata := createMetadata(t, repo, "v0", model.StatusInDraft)
	for i := 0; i < 3; i++ {
		_, err := repo.CreateData(ctx, metadata.ID, json.RawMessage(fmt.Sprintf(`{"i":%d}`, i)))
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteMetadata(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata.ID, deleted.ID)

	rows, err := repo.GetDataByMetadataID(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	again, err := repo.DeleteMetadata(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestHierarchyRepository_WithTxRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx HierarchyRepository) error {
		createMetadata(t, tx, "v0", model.StatusInDraft)

		page, err := tx.ListMetadata(ctx, model.MetadataFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		return boom
	})
	require.ErrorIs(t, err, boom)

	page, err := repo.ListMetadata(ctx, model.MetadataFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}
