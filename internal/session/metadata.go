// Package session reads the recordings and descriptors of center-out
// sessions and holds the per-session configuration used for reporting.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/task"
)

// ErrMalformedMetadata is returned when a session descriptor lacks a
// required key or carries an unparseable number.
var ErrMalformedMetadata = errors.New("malformed metadata")

// DescriptorFile is the name of the descriptor inside a session directory.
const DescriptorFile = "README.txt"

// Descriptor keys the analysis depends on.
const (
	KeyTargetInfo   = "Target info"
	KeyCopilotAlpha = "kfCopilotAlpha (1.0: no copilot)"
	// keyCopilotAlphaShort is what a first-colon split makes of
	// KeyCopilotAlpha.
	keyCopilotAlphaShort = "kfCopilotAlpha (1.0"
)

// canonicalRadius is the target radius of the standard 8-target layout.
const canonicalRadius = 0.7

// canonicalDiagonal is the rounded diagonal offset used by the recorder for
// canonicalRadius.
const canonicalDiagonal = 0.495

var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// Descriptor is the key/value content of a session's README.txt.
type Descriptor map[string]string

// ParseDescriptor reads colon-delimited "key: value" lines. Each line is
// split at its first colon. Lines with more than one colon are also
// recorded split at their last colon, so keys that themselves contain a
// colon can be looked up whole. Lines without a colon are ignored.
func ParseDescriptor(r io.Reader) (Descriptor, error) {
	d := make(Descriptor)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		first := strings.Index(line, ":")
		if first < 0 {
			continue
		}
		key := strings.TrimSpace(line[:first])
		d[key] = strings.TrimSpace(line[first+1:])

		if last := strings.LastIndex(line, ":"); last != first {
			longKey := strings.TrimSpace(line[:last])
			if _, exists := d[longKey]; !exists {
				d[longKey] = strings.TrimSpace(line[last+1:])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return d, nil
}

// ReadDescriptor reads DescriptorFile from dir.
func ReadDescriptor(fsys fsutil.FileSystem, dir string) (Descriptor, error) {
	f, err := fsys.Open(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}
	defer f.Close()
	return ParseDescriptor(f)
}

// Numbers extracts every number in the value stored under key.
func (d Descriptor) Numbers(key string) ([]float64, error) {
	raw, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrMalformedMetadata, key)
	}
	matches := numberPattern.FindAllString(raw, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformedMetadata, key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Metadata holds the descriptor fields the analysis uses.
type Metadata struct {
	// TargetInfo holds the raw "Target info" numbers: x, y, width, height.
	TargetInfo []float64 `json:"target_info"`
	// TargetPositions are the eight target centres in canonical order
	// (left, right, up, down, up-left, down-left, up-right, down-right).
	TargetPositions [task.NumTargets]task.Point `json:"target_positions"`
	TargetDiameter  float64                     `json:"target_diameter"`
	// CopilotAlpha blends decoder output with the assist signal;
	// 1.0 means no assistance, 0.0 full assistance.
	CopilotAlpha float64 `json:"copilot_alpha"`
}

// ParseMetadata derives Metadata from a descriptor.
func ParseMetadata(d Descriptor) (*Metadata, error) {
	info, err := d.Numbers(KeyTargetInfo)
	if err != nil {
		return nil, err
	}
	if len(info) < 4 {
		return nil, fmt.Errorf("%w: %q needs 4 numbers, got %d", ErrMalformedMetadata, KeyTargetInfo, len(info))
	}

	positions, err := TargetPositions(info[0], info[1])
	if err != nil {
		return nil, err
	}

	alpha, err := copilotAlpha(d)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		TargetInfo:      info,
		TargetPositions: positions,
		TargetDiameter:  info[2],
		CopilotAlpha:    alpha,
	}, nil
}

func copilotAlpha(d Descriptor) (float64, error) {
	if raw, ok := d[KeyCopilotAlpha]; ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil {
			return v, nil
		}
		nums, nerr := d.Numbers(KeyCopilotAlpha)
		if nerr != nil || len(nums) == 0 {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedMetadata, KeyCopilotAlpha, err)
		}
		return nums[0], nil
	}
	if _, ok := d[keyCopilotAlphaShort]; ok {
		nums, err := d.Numbers(keyCopilotAlphaShort)
		if err != nil {
			return 0, err
		}
		if len(nums) == 0 {
			return 0, fmt.Errorf("%w: %q has no number", ErrMalformedMetadata, KeyCopilotAlpha)
		}
		return nums[0], nil
	}
	return 0, fmt.Errorf("%w: missing key %q", ErrMalformedMetadata, KeyCopilotAlpha)
}

// TargetPositions lays the eight targets out on a circle whose radius is
// taken from the first target's coordinates. The standard 0.7 radius uses
// the recorder's rounded diagonal offset.
func TargetPositions(x, y float64) ([task.NumTargets]task.Point, error) {
	var out [task.NumTargets]task.Point
	r := math.Abs(x)
	if r == 0 {
		r = math.Abs(y)
	}
	if r == 0 {
		return out, fmt.Errorf("%w: target position (%g, %g) is at the origin", ErrMalformedMetadata, x, y)
	}

	diag := r * math.Sqrt2 / 2
	if r == canonicalRadius {
		diag = canonicalDiagonal
	}

	out = [task.NumTargets]task.Point{
		{X: -r, Y: 0},        // left
		{X: r, Y: 0},         // right
		{X: 0, Y: r},         // up
		{X: 0, Y: -r},        // down
		{X: -diag, Y: diag},  // up-left
		{X: -diag, Y: -diag}, // down-left
		{X: diag, Y: diag},   // up-right
		{X: diag, Y: -diag},  // down-right
	}
	return out, nil
}

// TargetDistance is the straight-line distance used by the efficiency
// metric: the absolute x coordinate of the left target.
func (m *Metadata) TargetDistance() float64 {
	return math.Abs(m.TargetPositions[0].X)
}

// TargetPosition returns the centre of the target with the given dense
// index.
func (m *Metadata) TargetPosition(idx int) (task.Point, bool) {
	if idx < 0 || idx >= len(m.TargetPositions) {
		return task.Point{}, false
	}
	return m.TargetPositions[idx], true
}
