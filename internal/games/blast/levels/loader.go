// Package levels provides level loading, validation and generation for Blast.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// DefaultLevelID is the built-in level used when a requested level is unknown.
const DefaultLevelID = "testLevel7x7"

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("level not found")

//go:embed builtin
var builtinFS embed.FS

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	FilePath string
	File     formats.File
	Config   core.LevelConfig
}

// NewSession starts a session for this level. A non-zero seed overrides the
// level's own seed.
func (l Level) NewSession(seed int64) (*core.Session, error) {
	cfg := l.Config
	if seed != 0 {
		cfg.Seed = seed
	}
	return core.NewSession(cfg)
}

// Loader handles loading levels from a file tree.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// NewEmbeddedLoader creates a loader for the levels built into the binary.
func NewEmbeddedLoader() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return &Loader{Root: "builtin", fsys: sub}
}

// NewFSLoader creates a loader over any file system.
func NewFSLoader(name string, fsys fs.FS) *Loader {
	return &Loader{Root: name, fsys: fsys}
}

// Skipped describes a level file that could not be loaded.
type Skipped struct {
	Path string
	Err  error
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering. Invalid files are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	levels, _, err := l.Scan()
	return levels, err
}

// Scan is LoadAll that also reports the files it skipped.
func (l *Loader) Scan() ([]Level, []Skipped, error) {
	var levels []Level
	var skipped []Skipped

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			skipped = append(skipped, Skipped{Path: p, Err: err})
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, skipped, nil
}

// LoadFile loads a single level file by its path inside the loader's tree.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	file, err := formats.Parse(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	cfg, err := Decode(file)
	if err != nil {
		return Level{}, fmt.Errorf("decoding file %s: %w", p, err)
	}

	id := file.ID
	if id == "" {
		id = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	name := file.Name
	if name == "" {
		name = id
	}
	return Level{
		ID:       id,
		Name:     name,
		FilePath: path.Join(l.Root, p),
		File:     file,
		Config:   cfg,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Default returns the built-in default level.
func Default() Level {
	lvl, err := NewEmbeddedLoader().LoadByID(DefaultLevelID)
	if err != nil {
		panic(fmt.Sprintf("levels: built-in default level: %v", err))
	}
	return lvl
}

// Resolve looks up id in l and falls back to the built-in default level when it
// is unknown. The returned flag reports whether the fallback was used.
func Resolve(l *Loader, id string) (Level, bool, error) {
	lvl, err := l.LoadByID(id)
	if err == nil {
		return lvl, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Level{}, false, err
	}
	return Default(), true, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
