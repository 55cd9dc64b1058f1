package codec

import (
	"testing"

	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	movies := []movie.Movie{
		{ID: 1, Name: "Dune", Review: "", Status: movie.StatusWatchlist},
		{ID: 5, Name: "Alien", Review: "in space, no one can hear", Status: movie.StatusWatched},
		{ID: 3, Name: "Heat", Review: "", Status: movie.StatusWatching},
	}

	data, err := EncodeSnapshot(movies, 0)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"movies":[
		{"id":1,"name":"Dune","review":"","status":"watchlist"},
		{"id":5,"name":"Alien","review":"in space, no one can hear","status":"watched"},
		{"id":3,"name":"Heat","review":"","status":"watching"}]}`, string(data))

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.NoError(t, decoded.Err())
	require.Equal(t, movies, decoded.Movies)
}

func TestEncodeSnapshotEmpty(t *testing.T) {
	data, err := EncodeSnapshot(nil, 0)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"movies":[]}`, string(data))

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Empty(t, decoded.Movies)
}

func TestDecodeSnapshotRejectsBadRecordsIndividually(t *testing.T) {
	data := []byte(`{"version":1,"movies":[
		{"id":1,"name":"Dune","review":"","status":"watchlist"},
		{"id":2,"name":"Heat","review":"","status":"watching","rating":5},
		{"id":3,"name":"Alien","status":"watched"},
		{"id":4,"name":"Ronin","review":null,"status":"watched"},
		{"id":"5","name":"Solaris","review":"","status":"watched"},
		{"id":6,"name":"Tenet","review":"","status":"someday"},
		{"id":1,"name":"Dune again","review":"","status":"watched"},
		{"id":7,"name":"  ","review":"","status":"watched"},
		"not an object",
		{"id":8,"name":"Arrival","review":"","status":"watched"}
	]}`)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	require.Equal(t, []movie.Movie{
		{ID: 1, Name: "Dune", Status: movie.StatusWatchlist},
		{ID: 8, Name: "Arrival", Status: movie.StatusWatched},
	}, decoded.Movies)

	require.Len(t, decoded.Rejected, 8)
	require.ErrorIs(t, decoded.Rejected[0], ErrUnknownField)
	require.ErrorIs(t, decoded.Rejected[1], ErrMissingField)
	require.ErrorIs(t, decoded.Rejected[2], ErrNullField)
	require.ErrorIs(t, decoded.Rejected[3], ErrMalformedRecord)
	require.ErrorIs(t, decoded.Rejected[4], movie.ErrInvalidStatus)
	require.ErrorIs(t, decoded.Rejected[5], movie.ErrDuplicateID)
	require.ErrorIs(t, decoded.Rejected[6], movie.ErrInvalidName)
	require.ErrorIs(t, decoded.Rejected[7], ErrMalformedRecord)
	require.Equal(t, 6, decoded.Rejected[5].Index)
	require.Equal(t, int64(1), decoded.Rejected[5].ID)
	require.Equal(t, int64(5), decoded.Rejected[3].ID)
	require.Zero(t, decoded.Rejected[7].ID)
	require.Equal(t, int64(7), decoded.IDFloor)
	require.ErrorIs(t, decoded.Err(), ErrUnknownField)
}

func TestDecodeSnapshotMalformedEnvelope(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"version":1}`,
		`{"version":2,"movies":[]}`,
		`{"version":1,"movies":[],"searchQuery":"war"}`,
		`{"version":1,"id_floor":-3,"movies":[]}`,
	} {
		_, err := DecodeSnapshot([]byte(data))
		require.ErrorIs(t, err, ErrMalformedSnapshot, data)
	}
}

func TestDecodeRecords(t *testing.T) {
	decoded, err := DecodeRecords([]byte(`[{"id":1,"name":"Dune","review":"","status":"watchlist"}]`))
	require.NoError(t, err)
	require.Len(t, decoded.Movies, 1)
	require.NoError(t, decoded.Err())

	_, err = DecodeRecords([]byte(`{"id":1}`))
	require.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestSnapshotIDFloor(t *testing.T) {
	movies := []movie.Movie{{ID: 2, Name: "Heat", Status: movie.StatusWatched}}

	data, err := EncodeSnapshot(movies, 9)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"id_floor":9,"movies":[
		{"id":2,"name":"Heat","review":"","status":"watched"}]}`, string(data))

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, int64(9), decoded.IDFloor)
	require.Equal(t, movies, decoded.Movies)

	// A floor at or below a live id carries no information and is not written.
	data, err = EncodeSnapshot(movies, 2)
	require.NoError(t, err)
	require.NotContains(t, string(data), "id_floor")
}

func TestDecodeSnapshotFloorCoversRejectedIDs(t *testing.T) {
	decoded, err := DecodeSnapshot([]byte(`{"version":1,"id_floor":4,"movies":[
		{"id":1,"name":"Dune","review":"","status":"watchlist"},
		{"id":12,"name":"Heat","review":"","status":"paused"}
	]}`))
	require.NoError(t, err)
	require.Len(t, decoded.Movies, 1)
	require.Equal(t, int64(12), decoded.Rejected[0].ID)
	require.Equal(t, int64(12), decoded.IDFloor)
}
