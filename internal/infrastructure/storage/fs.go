package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"svw.info/pairs/internal/domain"
)

// ErrNotFound is returned by Load for an unknown id.
var ErrNotFound = errors.New("snapshot not found")

// FS stores one JSON file per game under dir/{playing,won,lost}.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

var outcomes = []domain.Outcome{domain.Playing, domain.Won, domain.Lost}

func (s *FS) pathFor(id string, o domain.Outcome) string {
	return filepath.Join(s.dir, o.String(), id+".json")
}

func cleanID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid snapshot id %q", id)
	}
	return id, nil
}

// Save writes the snapshot into its outcome folder and drops copies left in
// the other folders, so a finished game moves out of "playing".
func (s *FS) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("invalid snapshot: nil")
	}
	id, err := cleanID(snap.ID)
	if err != nil {
		return err
	}
	target := s.pathFor(id, snap.Outcome)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}
	for _, o := range outcomes {
		if o == snap.Outcome {
			continue
		}
		if err := os.Remove(s.pathFor(id, o)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	id, err := cleanID(id)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		data, err := os.ReadFile(s.pathFor(id, o))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var out domain.Snapshot
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		// The folder wins over a stale field.
		out.Outcome = o
		if out.ID == "" {
			out.ID = id
		}
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns every stored game, newest first. Unreadable files are skipped.
func (s *FS) List(ctx context.Context) ([]domain.SnapshotMeta, error) {
	type meta struct {
		ID        string `json:"id"`
		Name      string `json:"name,omitempty"`
		Stage     int    `json:"stage"`
		CreatedAt int64  `json:"createdAt"`
	}

	var out []domain.SnapshotMeta
	for _, o := range outcomes {
		dir := filepath.Join(s.dir, o.String())
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var m meta
			if err := json.Unmarshal(data, &m); err != nil || m.ID == "" {
				continue
			}
			out = append(out, domain.SnapshotMeta{
				ID:        m.ID,
				Name:      m.Name,
				Stage:     m.Stage,
				Outcome:   o,
				CreatedAt: m.CreatedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
