package scenario

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"interrogation/internal/game"
)

//go:embed data/*.json
var embedded embed.FS

// FSStore reads <id>.json, <id>.yaml or <id>.yml documents from a file
// system.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewEmbeddedStore serves the scenarios compiled into the binary.
func NewEmbeddedStore() *FSStore {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return NewFSStore(sub)
}

// NewDirStore serves scenarios from a directory on disk.
func NewDirStore(dir string) *FSStore {
	return NewFSStore(os.DirFS(dir))
}

var extensions = []struct {
	ext    string
	format Format
}{
	{".json", FormatJSON},
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
}

func (s *FSStore) Load(_ context.Context, id string) (*game.Scenario, error) {
	if id == "" || !fs.ValidPath(id) || path.Base(id) != id {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, id)
	}
	for _, e := range extensions {
		data, err := fs.ReadFile(s.fsys, id+e.ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read scenario %s: %w", id, err)
		}
		return Decode(id, data, e.format)
	}
	return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, id)
}
