package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/reelboard/internal/codec"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/rpggio/reelboard/internal/filestore"
	"github.com/rpggio/reelboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sample() []movie.Movie {
	return []movie.Movie{
		{ID: 1, Name: "Dune", Status: movie.StatusWatchlist},
		{ID: 2, Name: "Heat", Review: "the diner scene", Status: movie.StatusWatched},
	}
}

func TestSnapshotter_SaveRestore(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	snap := NewSnapshotter(repo, "root")
	ctx := context.Background()

	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	require.False(t, restored.Found)

	require.NoError(t, snap.Save(ctx, sample()))

	restored, err = snap.Restore(ctx)
	require.NoError(t, err)
	require.True(t, restored.Found)
	require.Equal(t, sample(), restored.Movies)
	require.Empty(t, restored.Rejected)
}

func TestSnapshotter_RestoreDropsCorruptRecords(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "root", []byte(`{"version":1,"movies":[
		{"id":1,"name":"Dune","review":"","status":"watchlist"},
		{"id":2,"name":"Heat","review":"","status":"paused"}
	]}`)))

	restored, err := NewSnapshotter(repo, "root").Restore(ctx)
	require.NoError(t, err)
	require.Len(t, restored.Movies, 1)
	require.Len(t, restored.Rejected, 1)
	require.Equal(t, 1, restored.Rejected[0].Index)
	require.ErrorIs(t, restored.Rejected[0], movie.ErrInvalidStatus)
}

func TestSnapshotter_SaveKeepsRetiredIDs(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "root", []byte(`{"version":1,"movies":[
		{"id":1,"name":"Dune","review":"","status":"watchlist"},
		{"id":5,"name":"Heat","review":"","status":"paused"}
	]}`)))

	snap := NewSnapshotter(repo, "root")
	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), restored.IDFloor)
	require.Equal(t, int64(5), restored.Rejected[0].ID)

	require.NoError(t, snap.Save(ctx, restored.Movies))

	again, err := NewSnapshotter(repo, "root").Restore(ctx)
	require.NoError(t, err)
	require.Empty(t, again.Rejected)
	require.Equal(t, restored.Movies, again.Movies)
	require.Equal(t, int64(5), again.IDFloor)
}

func TestSnapshotter_RestoreMalformedEnvelope(t *testing.T) {
	repo := &mocks.SnapshotRepository{}
	repo.On("Get", mock.Anything, "root").Return([]byte("{"), nil)

	_, err := NewSnapshotter(repo, "root").Restore(context.Background())
	require.ErrorIs(t, err, codec.ErrMalformedSnapshot)
}

func TestSnapshotter_SaveWrapsRepositoryError(t *testing.T) {
	repo := &mocks.SnapshotRepository{}
	repo.On("Put", mock.Anything, "root", mock.Anything).Return(errors.New("disk full"))

	err := NewSnapshotter(repo, "root").Save(context.Background(), sample())
	require.ErrorContains(t, err, "saving snapshot")
	repo.AssertExpectations(t)
}

// gatedRepo blocks the first Put until released and records every payload.
type gatedRepo struct {
	mu       sync.Mutex
	payloads [][]byte
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedRepo) Put(_ context.Context, _ string, payload []byte) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		<-g.release
	}
	g.mu.Lock()
	g.payloads = append(g.payloads, payload)
	g.mu.Unlock()
	return nil
}

func (g *gatedRepo) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("not used")
}

func TestAsyncSaver_LatestWins(t *testing.T) {
	repo := newGatedRepo()
	saver := NewAsyncSaver(NewSnapshotter(repo, "root"), nil)
	ctx := context.Background()

	movies := sample()
	require.NoError(t, saver.Save(ctx, movies[:1]))
	<-repo.started

	// Queued while the first write is blocked; only the last survives.
	require.NoError(t, saver.Save(ctx, movies))
	movies[1].Review = "better second time"
	require.NoError(t, saver.Save(ctx, movies))
	close(repo.release)

	require.NoError(t, saver.Close(ctx))
	require.Len(t, repo.payloads, 2)
	require.Equal(t, 2, saver.Writes())

	decoded, err := codec.DecodeSnapshot(repo.payloads[1])
	require.NoError(t, err)
	require.Equal(t, "better second time", decoded.Movies[1].Review)
}

func TestAsyncSaver_SaveDoesNotAliasCallerSlice(t *testing.T) {
	repo := newGatedRepo()
	close(repo.release)
	saver := NewAsyncSaver(NewSnapshotter(repo, "root"), nil)

	movies := sample()
	require.NoError(t, saver.Save(context.Background(), movies))
	movies[0].Name = "mutated"
	require.NoError(t, saver.Close(context.Background()))

	decoded, err := codec.DecodeSnapshot(repo.payloads[len(repo.payloads)-1])
	require.NoError(t, err)
	require.Equal(t, "Dune", decoded.Movies[0].Name)
}

func TestAsyncSaver_CloseFlushesAndRejectsLaterSaves(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	snap := NewSnapshotter(repo, "root")
	saver := NewAsyncSaver(snap, nil)
	ctx := context.Background()

	require.NoError(t, saver.Save(ctx, sample()))
	require.NoError(t, saver.Close(ctx))
	require.NoError(t, saver.Close(ctx))

	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, sample(), restored.Movies)

	require.ErrorIs(t, saver.Save(ctx, nil), ErrSaverClosed)
}

func TestAsyncSaver_CloseReportsWriteError(t *testing.T) {
	repo := &mocks.SnapshotRepository{}
	repo.On("Put", mock.Anything, "root", mock.Anything).Return(errors.New("disk full"))
	saver := NewAsyncSaver(NewSnapshotter(repo, "root"), nil)

	require.NoError(t, saver.Save(context.Background(), sample()))
	err := saver.Close(context.Background())
	require.ErrorContains(t, err, "disk full")
	require.Zero(t, saver.Writes())
}

func TestAsyncSaver_CloseHonoursDeadline(t *testing.T) {
	repo := newGatedRepo()
	saver := NewAsyncSaver(NewSnapshotter(repo, "root"), nil)
	require.NoError(t, saver.Save(context.Background(), sample()))
	<-repo.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, saver.Close(ctx), context.DeadlineExceeded)

	close(repo.release)
	require.NoError(t, saver.Close(context.Background()))
}
