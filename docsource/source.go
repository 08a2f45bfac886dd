// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docsource

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// DefaultExtensions lists the file extensions read by a DirSource.
var DefaultExtensions = []string{".txt", ".md"}

// DirSource reads every matching file in a single directory, in
// lexical filename order. Each file becomes one document. The directory
// is listed anew on every Documents call, so files added between
// ingestion runs are picked up without restarting.
type DirSource struct {
	dir        string
	extensions []string
	logger     *slog.Logger
}

// DirOption configures a DirSource.
type DirOption func(*DirSource) error

// WithExtensions overrides the file extensions read by the source.
func WithExtensions(extensions []string) DirOption {
	return func(s *DirSource) error {
		if len(extensions) > 0 {
			s.extensions = extensions
		}
		return nil
	}
}

// WithDirLogger sets a custom logger. Default is slog.Default().
func WithDirLogger(logger *slog.Logger) DirOption {
	return func(s *DirSource) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewDirSource creates a source over the given directory.
func NewDirSource(dir string, opts ...DirOption) (*DirSource, error) {
	if dir == "" {
		return nil, ErrDirRequired
	}

	s := &DirSource{
		dir:        dir,
		extensions: DefaultExtensions,
		logger:     slog.Default().With("component", "docsource"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Documents lists the directory and yields each matching file's content
// as one document. Subdirectories are not descended into. An unreadable
// directory or file terminates the sequence with an error.
func (s *DirSource) Documents(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			yield("", fmt.Errorf("listing documents: %w", err))
			return
		}

		for _, entry := range entries {
			if entry.IsDir() || !s.matches(entry.Name()) {
				continue
			}
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			path := filepath.Join(s.dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				yield("", fmt.Errorf("reading document %s: %w", entry.Name(), err))
				return
			}

			s.logger.Debug("read document", "file", entry.Name(), "bytes", len(data))
			if !yield(string(data), nil) {
				return
			}
		}
	}
}

// Dir returns the watched directory.
func (s *DirSource) Dir() string {
	return s.dir
}

func (s *DirSource) matches(name string) bool {
	return slices.Contains(s.extensions, filepath.Ext(name))
}
