// Package difftastic models and parses the JSON emitted by difftastic when DFT_DISPLAY=json (and DFT_UNSTABLE=yes) is set.
//
// difftastic emits one object per file. jj prints them as a JSON array; git (which invokes difft once per file as its external diff tool) prints newline-separated
// objects. Parse accepts both.
//
// Example object:
//
//	{
//	  "path": "src/lib.rs",
//	  "language": "Rust",
//	  "status": "changed",
//	  "aligned_lines": [[0, 0], [1, 1], [null, 2]],
//	  "chunks": [[
//	    {
//	      "lhs": {"line_number": 1, "changes": [{"start": 0, "end": 5, "content": "hello", "highlight": "string"}]},
//	      "rhs": {"line_number": 1, "changes": [{"start": 0, "end": 5, "content": "world", "highlight": "string"}]}
//	    }
//	  ]]
//	}
package difftastic

import (
	"encoding/json"
	"fmt"
)

// Status is the upstream classification of a file. It is never inferred from content.
type Status int

// File statuses.
const (
	StatusChanged Status = iota
	StatusCreated
	StatusDeleted
)

// String returns the lowercase wire name ("created", "deleted", "changed").
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusDeleted:
		return "deleted"
	case StatusChanged:
		return "changed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON encodes s as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name. Unknown names are an error.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	switch name {
	case "created":
		*s = StatusCreated
	case "deleted":
		*s = StatusDeleted
	case "changed":
		*s = StatusChanged
	default:
		return fmt.Errorf("status: unknown value %q", name)
	}
	return nil
}

// File is one file entry from difftastic's output.
type File struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Status   Status `json:"status"`

	// AlignedLines is the alignment plan: one entry per display row, in display order. Only meaningful when Status == StatusChanged.
	AlignedLines []AlignedLine `json:"aligned_lines"`

	// Chunks are groups of related line changes.
	Chunks []Chunk `json:"chunks"`
}

// Chunk is one contiguous cluster of related changes. Ordering within a chunk is not meaningful to consumers.
type Chunk []DiffLine

// DiffLine holds the old-side (Lhs) and/or new-side (Rhs) changes for one entry in a chunk. Either may be nil.
type DiffLine struct {
	Lhs *LineSide `json:"lhs,omitempty"`
	Rhs *LineSide `json:"rhs,omitempty"`
}

// LineSide is the set of changes on one 0-indexed line of one side.
type LineSide struct {
	LineNumber int      `json:"line_number"`
	Changes    []Change `json:"changes"`
}

// Change is a changed byte range [Start, End) within one line.
//
// Start and End are byte offsets into the line, not character offsets. End may equal the line's byte length. Ranges are not validated.
type Change struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Content string `json:"content"`

	// Highlight is difftastic's syntax classification ("keyword", "string", "comment", "type", "normal", ...). It may be empty and is not interpreted here.
	Highlight string `json:"highlight"`
}
