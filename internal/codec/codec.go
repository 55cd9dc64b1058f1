// Package codec converts movie collections to and from their persisted JSON form.
//
// Decoding is strict per record: a record with unknown, missing, null or
// mistyped fields is rejected on its own and reported as a RecordError instead
// of being coerced into the collection. A record that repeats an earlier id is
// rejected the same way, so the surviving collection always has unique ids.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/reelboard/internal/domain/movie"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 1

var (
	// ErrMalformedSnapshot indicates the snapshot envelope itself could not be read.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrMalformedRecord indicates a record that is not a JSON object.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnknownField indicates a record carrying a field outside id, name, review, status.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingField indicates a record lacking one of id, name, review, status.
	ErrMissingField = errors.New("missing field")
	// ErrNullField indicates a record with an explicit null value.
	ErrNullField = errors.New("null field")
)

var recordFields = []string{"id", "name", "review", "status"}

// RecordError describes one rejected record. ID is the record's id when one
// could be read, zero otherwise.
type RecordError struct {
	Index int
	ID    int64
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// Decoded is the result of a strict decode.
//
// IDFloor is the highest id that was assigned once but is not among Movies:
// the stored floor or the id of a rejected record, whichever is larger. New
// ids must stay above it.
type Decoded struct {
	Movies   []movie.Movie
	Rejected []RecordError
	IDFloor  int64
}

// Err joins every rejected record error, or returns nil when all records survived.
func (d Decoded) Err() error {
	if len(d.Rejected) == 0 {
		return nil
	}
	errs := make([]error, len(d.Rejected))
	for i, r := range d.Rejected {
		errs[i] = r
	}
	return errors.Join(errs...)
}

type envelope struct {
	Version int               `json:"version"`
	IDFloor int64             `json:"id_floor,omitempty"`
	Movies  []json.RawMessage `json:"movies"`
}

type wireMovie struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Review string `json:"review"`
	Status string `json:"status"`
}

// EncodeSnapshot serializes the persisted slice of state: the movies, plus
// idFloor when it is above every movie id.
func EncodeSnapshot(movies []movie.Movie, idFloor int64) ([]byte, error) {
	records := make([]wireMovie, len(movies))
	for i, m := range movies {
		records[i] = wireMovie{ID: m.ID, Name: m.Name, Review: m.Review, Status: string(m.Status)}
		if m.ID >= idFloor {
			idFloor = 0
		}
	}
	if idFloor < 0 {
		idFloor = 0
	}
	data, err := json.Marshal(struct {
		Version int         `json:"version"`
		IDFloor int64       `json:"id_floor,omitempty"`
		Movies  []wireMovie `json:"movies"`
	}{Version: SnapshotVersion, IDFloor: idFloor, Movies: records})
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot reads a snapshot envelope and decodes its records strictly.
func DecodeSnapshot(data []byte) (Decoded, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if env.Movies == nil {
		return Decoded{}, fmt.Errorf("%w: movies list is missing", ErrMalformedSnapshot)
	}
	if env.Version != SnapshotVersion {
		return Decoded{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedSnapshot, env.Version)
	}
	if env.IDFloor < 0 {
		return Decoded{}, fmt.Errorf("%w: negative id_floor", ErrMalformedSnapshot)
	}
	decoded := decodeRaw(env.Movies)
	decoded.IDFloor = max(decoded.IDFloor, env.IDFloor)
	return decoded, nil
}

// DecodeRecords decodes a bare JSON array of movie records strictly.
func DecodeRecords(data []byte) (Decoded, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return decodeRaw(raws), nil
}

func decodeRaw(raws []json.RawMessage) Decoded {
	out := Decoded{Movies: make([]movie.Movie, 0, len(raws))}
	seen := make(map[int64]struct{}, len(raws))
	for i, raw := range raws {
		m, err := decodeRecord(raw)
		if err == nil {
			if _, dup := seen[m.ID]; dup {
				err = fmt.Errorf("%w %d", movie.ErrDuplicateID, m.ID)
			}
		}
		if err != nil {
			id := readableID(raw)
			out.Rejected = append(out.Rejected, RecordError{Index: i, ID: id, Err: err})
			out.IDFloor = max(out.IDFloor, id)
			continue
		}
		seen[m.ID] = struct{}{}
		out.Movies = append(out.Movies, m)
	}
	return out
}

func decodeRecord(raw json.RawMessage) (movie.Movie, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return movie.Movie{}, ErrMalformedRecord
	}
	for name := range fields {
		if !isRecordField(name) {
			return movie.Movie{}, fmt.Errorf("%w %q", ErrUnknownField, name)
		}
	}
	for _, name := range recordFields {
		value, ok := fields[name]
		if !ok {
			return movie.Movie{}, fmt.Errorf("%w %q", ErrMissingField, name)
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return movie.Movie{}, fmt.Errorf("%w %q", ErrNullField, name)
		}
	}

	var w wireMovie
	if err := json.Unmarshal(raw, &w); err != nil {
		return movie.Movie{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	m := movie.Movie{ID: w.ID, Name: w.Name, Review: w.Review, Status: movie.Status(w.Status)}
	if err := movie.ValidateMovie(m); err != nil {
		return movie.Movie{}, err
	}
	return m, nil
}

// readableID returns a positive integer id from a record that failed
// decoding, or zero.
func readableID(raw json.RawMessage) int64 {
	var head struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return 0
	}
	id, err := head.ID.Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func isRecordField(name string) bool {
	for _, f := range recordFields {
		if f == name {
			return true
		}
	}
	return false
}
