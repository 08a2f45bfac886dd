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


package ingestion

import (
	"iter"
	"strings"

	"github.com/poiesic/docrag/core"
)

// Default window geometry, in runes.
const (
	DefaultWindowSize = 1000
	DefaultOverlap    = 200
)

// Chunker splits document texts into fixed-size overlapping rune
// windows. Window geometry is validated at construction; an overlap
// equal to or larger than the window would never advance and is a
// configuration fault.
type Chunker struct {
	windowSize int
	overlap    int
}

// NewChunker creates a chunker with the given window size and overlap.
func NewChunker(windowSize, overlap int) (*Chunker, error) {
	if windowSize < 1 || overlap < 0 || overlap >= windowSize {
		return nil, ErrInvalidWindow
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}, nil
}

// Chunks lazily transforms a sequence of document texts into a sequence
// of chunks. Each non-empty document of rune length L yields windows at
// offsets 0, stride, 2*stride (stride = windowSize - overlap), each of
// length min(windowSize, L-offset); emission stops once a window
// reaches the end of the document. Empty or whitespace-only documents
// yield nothing. The offset restarts at zero for every document; no
// window spans a document boundary. Errors from the source pass through
// and terminate the sequence.
func (c *Chunker) Chunks(docs iter.Seq2[string, error]) iter.Seq2[core.Chunk, error] {
	stride := c.windowSize - c.overlap

	return func(yield func(core.Chunk, error) bool) {
		for doc, err := range docs {
			if err != nil {
				yield(core.Chunk{}, err)
				return
			}
			if strings.TrimSpace(doc) == "" {
				continue
			}

			runes := []rune(doc)
			for offset := 0; offset < len(runes); offset += stride {
				length := min(c.windowSize, len(runes)-offset)
				chunk := core.Chunk{
					Text:   string(runes[offset : offset+length]),
					Offset: offset,
				}
				if !yield(chunk, nil) {
					return
				}
				if offset+length >= len(runes) {
					break
				}
			}
		}
	}
}
