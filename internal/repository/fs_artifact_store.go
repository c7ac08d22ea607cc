package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// FSArtifactStore persists (model, schema) pairs as one JSON document per
// ticker under a directory. Writes go to a temp file in the same directory
// followed by an atomic rename, so a partially written artifact is never
// observable and retraining overwrites wholesale.
type FSArtifactStore struct {
	dir string
}

func NewFSArtifactStore(dir string) (*FSArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact dir: %w", err)
	}
	return &FSArtifactStore{dir: dir}, nil
}

func (s *FSArtifactStore) path(ticker string) string {
	return filepath.Join(s.dir, fmt.Sprintf("model_%s.json", sanitize(ticker)))
}

func (s *FSArtifactStore) Put(ctx context.Context, a *models.Artifact) error {
	if a == nil || a.Ticker == "" {
		return fmt.Errorf("artifact: missing ticker")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "model_*.tmp")
	if err != nil {
		return fmt.Errorf("artifact temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.path(a.Ticker)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

func (s *FSArtifactStore) Get(ctx context.Context, ticker string) (*models.Artifact, error) {
	data, err := os.ReadFile(s.path(ticker))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrModelNotFound
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a models.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}

func sanitize(ticker string) string {
	out := make([]rune, 0, len(ticker))
	for _, r := range ticker {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

var _ domrepo.ArtifactStore = (*FSArtifactStore)(nil)
