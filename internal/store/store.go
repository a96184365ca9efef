// SPDX-License-Identifier: MPL-2.0

// Package store keeps the latest accepted namespace of each command path as
// a TOML file, so interactive runs can start from the previous answers.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/apd/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/argtree/internal/issue"
	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/validate"
)

const fileExt = ".toml"

type (
	// Store reads and writes namespace snapshots under one directory.
	// Snapshot files are named after the dotted command path, e.g.
	// release.build.toml.
	Store struct {
		dir    string
		logger *log.Logger
	}

	// Option configures a Store.
	Option func(*Store)

	// Entry is one stored snapshot.
	Entry struct {
		// Path is the dotted command path.
		Path string
		// File is the snapshot file.
		File string
		// Namespace is the decoded snapshot.
		Namespace command.Namespace
	}
)

// WithLogger sets the logger used for store events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, logger: log.New(os.Stderr)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the snapshot file for a command path.
func (s *Store) Path(path []string) string {
	return filepath.Join(s.dir, strings.Join(path, ".")+fileExt)
}

// Load returns the snapshot for a command path. A missing snapshot yields a
// nil namespace and no error.
func (s *Store) Load(path []string) (command.Namespace, error) {
	file := s.Path(path)
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storeError("load saved state", file, err)
	}
	return s.decode(file, data)
}

func (s *Store) decode(file string, data []byte) (command.Namespace, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, s.storeError("load saved state", file, err)
	}
	return denormalize(raw), nil
}

// Save replaces the snapshot for a command path with ns. Null values are
// omitted, so loading them back leaves those arguments at their defaults.
func (s *Store) Save(path []string, ns command.Namespace) error {
	file := s.Path(path)
	data, err := toml.Marshal(normalize(ns))
	if err != nil {
		return s.storeError("encode state", file, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return s.storeError("create state directory", s.dir, err)
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return s.storeError("save state", file, err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return s.storeError("save state", file, err)
	}
	s.logger.Debug("saved state", "path", strings.Join(path, "."), "file", file)
	return nil
}

// Entries returns every stored snapshot ordered by path.
func (s *Store) Entries() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("list state: %w", err)
	}
	slices.Sort(matches)
	entries := make([]Entry, 0, len(matches))
	for _, file := range matches {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, s.storeError("load saved state", file, err)
		}
		ns, err := s.decode(file, data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Path:      strings.TrimSuffix(filepath.Base(file), fileExt),
			File:      file,
			Namespace: ns,
		})
	}
	return entries, nil
}

// Clear removes every snapshot and returns how many were removed.
func (s *Store) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return 0, fmt.Errorf("list state: %w", err)
	}
	for i, file := range matches {
		if err := os.Remove(file); err != nil {
			return i, s.storeError("clear state", file, err)
		}
	}
	s.logger.Debug("cleared state", "dir", s.dir, "removed", len(matches))
	return len(matches), nil
}

func (s *Store) storeError(op, resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(resource).
		WithIssue(issue.StateStoreFailedId).
		WithSuggestion("Run 'argtree state clear' to discard saved state").
		Wrap(err).
		BuildError()
}

// normalize turns a namespace into TOML-encodable values. Nested namespaces
// become tables; collections that TOML cannot hold, such as dicts with
// non-string keys or lists with nulls, are written as literals that the
// argument validators parse back.
func normalize(ns command.Namespace) map[string]any {
	out := make(map[string]any, len(ns))
	for k, v := range ns {
		if v == nil {
			continue
		}
		if sub, ok := v.(command.Namespace); ok {
			out[k] = normalize(sub)
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case bool, int, int64, float64, string:
		return v
	case time.Time:
		return v
	case *apd.Decimal:
		return v.String()
	case apd.Decimal:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			switch e.(type) {
			case nil, []any, map[any]any, map[string]any:
				return validate.FormatLiteral(v)
			}
			out[i] = normalizeValue(e)
		}
		return out
	case map[any]any, map[string]any:
		return validate.FormatLiteral(v)
	default:
		return validate.FormatText(v)
	}
}

// denormalize converts decoded TOML tables into namespaces and integers
// into int.
func denormalize(raw map[string]any) command.Namespace {
	ns := make(command.Namespace, len(raw))
	for k, v := range raw {
		if table, ok := v.(map[string]any); ok {
			ns[k] = denormalize(table)
			continue
		}
		ns[k] = denormalizeValue(v)
	}
	return ns
}

func denormalizeValue(v any) any {
	switch v := v.(type) {
	case int64:
		return int(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = denormalizeValue(e)
		}
		return out
	default:
		return v
	}
}
