// Package replay records Blast plays as a level plus a tap list, and replays
// them against the engine. A play is a pure function of the level, the seed and
// the taps, so the tap list is all that needs storing.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// Version is the current record format version.
const Version = 1

// ErrMismatch is returned when a replay does not reproduce its recorded outcome.
var ErrMismatch = errors.New("replay: outcome mismatch")

// Tap is one recorded tap.
type Tap struct {
	Row int `yaml:"r"`
	Col int `yaml:"c"`
}

// Record is a complete replay.
type Record struct {
	Version   int          `yaml:"version"`
	LevelID   string       `yaml:"level_id"`
	Level     formats.File `yaml:"level"`
	Seed      int64        `yaml:"seed"`
	Taps      []Tap        `yaml:"taps,flow"`
	Won       bool         `yaml:"won"`
	MovesLeft int          `yaml:"moves_left"`
	FinalHash uint64       `yaml:"final_hash"`
}

// Recorder collects the taps of one session as they are accepted.
type Recorder struct {
	levelID string
	level   formats.File
	seed    int64
	taps    []Tap
}

// NewRecorder starts recording a session of lvl that runs with the given
// effective seed (core.Session.Seed).
func NewRecorder(lvl levels.Level, seed int64) *Recorder {
	file := lvl.File
	if file.Name == "" {
		file = levels.Encode(lvl.Name, lvl.Config)
	}
	return &Recorder{levelID: lvl.ID, level: file, seed: seed}
}

// Tap records an accepted tap. Rejected taps do not change the session and are
// not recorded.
func (r *Recorder) Tap(row, col int) {
	r.taps = append(r.taps, Tap{Row: row, Col: col})
}

// Len returns the number of recorded taps.
func (r *Recorder) Len() int {
	return len(r.taps)
}

// Finish builds the record from the session's final state.
func (r *Recorder) Finish(s *core.Session) Record {
	return Record{
		Version:   Version,
		LevelID:   r.levelID,
		Level:     r.level,
		Seed:      r.seed,
		Taps:      append([]Tap(nil), r.taps...),
		Won:       s.Phase() == core.PhaseLevelWon,
		MovesLeft: s.MovesLeft(),
		FinalHash: s.Snapshot().Hash(),
	}
}

// FromOutcome builds a record from an automated play-through.
func FromOutcome(lvl levels.Level, s *core.Session, out core.Outcome) Record {
	rec := NewRecorder(lvl, s.Seed())
	for _, p := range out.Taps {
		rec.Tap(p.Row, p.Col)
	}
	return rec.Finish(s)
}

// Encode serializes rec as zstd-compressed YAML.
func Encode(rec Record) ([]byte, error) {
	raw, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("replay: marshal: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("replay: create zstd writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("replay: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("replay: close zstd writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses data produced by Encode.
func Decode(data []byte) (Record, error) {
	zr, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return Record{}, fmt.Errorf("replay: create zstd reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return Record{}, fmt.Errorf("replay: decompress: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("replay: unmarshal: %w", err)
	}
	if rec.Version != Version {
		return Record{}, fmt.Errorf("replay: unsupported version %d", rec.Version)
	}
	return rec, nil
}

// Step is called after every replayed tap with its result.
type Step func(i int, tap Tap, res core.MoveResult)

// Play re-runs rec and returns the final session. onStep may be nil.
func Play(rec Record, onStep Step) (*core.Session, error) {
	cfg, err := levels.Decode(rec.Level)
	if err != nil {
		return nil, fmt.Errorf("replay: level: %w", err)
	}
	cfg.Seed = rec.Seed

	s, err := core.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("replay: start: %w", err)
	}
	for i, tap := range rec.Taps {
		res, err := s.SubmitTap(tap.Row, tap.Col)
		if err != nil {
			return s, fmt.Errorf("replay: tap %d: %w", i, err)
		}
		if !res.Valid() {
			return s, fmt.Errorf("%w: tap %d at (%d,%d) rejected", ErrMismatch, i, tap.Row, tap.Col)
		}
		if onStep != nil {
			onStep(i, tap, res)
		}
	}
	return s, nil
}

// Verify replays rec and checks that it ends in the recorded state.
func Verify(rec Record) error {
	s, err := Play(rec, nil)
	if err != nil {
		return err
	}
	if got := s.Snapshot().Hash(); got != rec.FinalHash {
		return fmt.Errorf("%w: final hash %016x, recorded %016x", ErrMismatch, got, rec.FinalHash)
	}
	if won := s.Phase() == core.PhaseLevelWon; won != rec.Won {
		return fmt.Errorf("%w: won %v, recorded %v", ErrMismatch, won, rec.Won)
	}
	return nil
}
