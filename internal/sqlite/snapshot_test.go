package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/reelboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	_, err := repo.Get(ctx, "root")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "root", []byte(`{"version":1,"movies":[]}`)))
	require.NoError(t, repo.Put(ctx, "root", []byte(`{"version":1,"movies":[{"id":1}]}`)))

	payload, err := repo.Get(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, `{"version":1,"movies":[{"id":1}]}`, string(payload))

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestSnapshotRepository_NamespaceIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	require.NoError(t, repo.Put(ctx, "alice", []byte("a")))
	require.NoError(t, repo.Put(ctx, "bob", []byte("b")))

	payload, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "a", string(payload))

	_, err = repo.Get(ctx, "carol")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSnapshotRepository_RequiresNamespace(t *testing.T) {
	repo := NewSnapshotRepository(NewTestDB(t))
	err := repo.Put(context.Background(), "", []byte("x"))
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
