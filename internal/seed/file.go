package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpggio/reelboard/internal/codec"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// File serves a seed list read from disk. JSON files may carry comments and
// trailing commas; YAML files are converted to JSON before strict decoding.
type File struct {
	Path  string
	Delay time.Duration
}

// NewFile creates a file-backed seed loader.
func NewFile(path string, delay time.Duration) *File {
	return &File{Path: path, Delay: delay}
}

// FetchSeed reads and validates the seed file after the configured delay.
func (f *File) FetchSeed(ctx context.Context) ([]movie.Movie, error) {
	if err := wait(ctx, f.Delay); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	data, err = normalize(f.Path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSeed, f.Path, err)
	}

	decoded, err := codec.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSeed, f.Path, err)
	}
	return checked(decoded)
}

func normalize(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return json.Marshal(doc)
	default:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}
		return standardized, nil
	}
}
