// Package store persists chains outside the core. The core itself never
// touches disk or network; these collaborators speak only the chain's
// canonical JSON contract, so every load revalidates the full hash chain.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adjudilane/verdict/pkg/chain"
)

// ChainStore saves and loads whole chains by graph id.
type ChainStore interface {
	Save(ctx context.Context, ch *chain.Chain) error
	Load(ctx context.Context, graphID string) (*chain.Chain, error)
}

// FileStore keeps one canonical JSON document per graph id under a
// directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(graphID string) string {
	return filepath.Join(s.dir, graphID+".json")
}

func (s *FileStore) Save(ctx context.Context, ch *chain.Chain) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := ch.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("store: encoding chain %s: %w", ch.GraphID(), err)
	}
	tmp := s.path(ch.GraphID()) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: writing chain %s: %w", ch.GraphID(), err)
	}
	return os.Rename(tmp, s.path(ch.GraphID()))
}

func (s *FileStore) Load(ctx context.Context, graphID string) (*chain.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(graphID))
	if err != nil {
		return nil, fmt.Errorf("store: reading chain %s: %w", graphID, err)
	}
	var ch chain.Chain
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("store: decoding chain %s: %w", graphID, err)
	}
	return &ch, nil
}
