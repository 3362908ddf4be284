package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/monitoring"
	"github.com/banshee-data/centerout/internal/task"
)

// TaskFile is the columnar export of a session's task log.
const TaskFile = "task.json"

// ErrInvalidSessionID is returned for identifiers that are empty or would
// escape the data root.
var ErrInvalidSessionID = errors.New("invalid session id")

// Loader returns the sample table of a session.
type Loader interface {
	Load(ctx context.Context, sessionID string) (*task.SampleTable, error)
}

// MetadataReader returns the parsed descriptor of a session.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, sessionID string) (*Metadata, error)
}

// DirLoader reads sessions laid out as <Root>/<session>/task.json and
// <Root>/<session>/README.txt.
type DirLoader struct {
	FS   fsutil.FileSystem
	Root string
}

var (
	_ Loader         = (*DirLoader)(nil)
	_ MetadataReader = (*DirLoader)(nil)
)

// NewDirLoader returns a loader over root on the real filesystem.
func NewDirLoader(root string) *DirLoader {
	return &DirLoader{FS: fsutil.OSFileSystem{}, Root: root}
}

// SessionDir returns the directory of a session, rejecting identifiers
// that are not a single path element.
func (l *DirLoader) SessionDir(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	return filepath.Join(l.Root, id), nil
}

// taskExport mirrors the JSON export of the recorder's task log.
// Integer columns may be exported as N or Nx1 arrays.
type taskExport struct {
	StateTask          []json.RawMessage `json:"state_task"`
	DecodedPos         [][]float64       `json:"decoded_pos"`
	NumCompletedBlocks []json.RawMessage `json:"numCompletedBlocks"`
}

// Load reads and validates the task log of a session.
func (l *DirLoader) Load(ctx context.Context, sessionID string) (*task.SampleTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.SessionDir(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := l.FS.ReadFile(filepath.Join(dir, TaskFile))
	if err != nil {
		return nil, fmt.Errorf("read task log: %w", err)
	}
	table, err := DecodeTaskExport(data)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	monitoring.Logf("[session] loaded %s: %d samples", sessionID, table.Len())
	return table, nil
}

// DecodeTaskExport decodes a task log export into a validated SampleTable.
func DecodeTaskExport(data []byte) (*task.SampleTable, error) {
	var exp taskExport
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("decode task log: %w", err)
	}

	states, err := flattenInts(exp.StateTask)
	if err != nil {
		return nil, fmt.Errorf("state_task: %w", err)
	}
	blocks, err := flattenInts(exp.NumCompletedBlocks)
	if err != nil {
		return nil, fmt.Errorf("numCompletedBlocks: %w", err)
	}

	pos := make([]task.Point, len(exp.DecodedPos))
	for i, row := range exp.DecodedPos {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: decoded_pos[%d] has %d values", task.ErrInvalidInput, i, len(row))
		}
		pos[i] = task.Point{X: row[0], Y: row[1]}
	}

	table := &task.SampleTable{StateTask: states, DecodedPos: pos, NumCompletedBlocks: blocks}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// flattenInts accepts each element either as a number or as a one-element
// array, as produced by exporting an Nx1 column.
func flattenInts(raw []json.RawMessage) ([]int, error) {
	out := make([]int, len(raw))
	for i, r := range raw {
		var v float64
		if err := json.Unmarshal(r, &v); err != nil {
			var wrapped []float64
			if werr := json.Unmarshal(r, &wrapped); werr != nil || len(wrapped) != 1 {
				return nil, fmt.Errorf("%w: element %d is not a number", task.ErrInvalidInput, i)
			}
			v = wrapped[0]
		}
		out[i] = int(v)
	}
	return out, nil
}

// ReadMetadata reads and parses a session's descriptor.
func (l *DirLoader) ReadMetadata(ctx context.Context, sessionID string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.SessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	d, err := ReadDescriptor(l.FS, dir)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetadata(d)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return m, nil
}

// Sessions lists the sessions under Root that have a task log.
func (l *DirLoader) Sessions() ([]string, error) {
	dirs, err := l.FS.SubDirs(l.Root)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var out []string
	for _, d := range dirs {
		if l.FS.Exists(filepath.Join(l.Root, d, TaskFile)) {
			out = append(out, d)
		}
	}
	return out, nil
}
