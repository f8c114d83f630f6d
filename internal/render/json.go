package render

import (
	"encoding/json"
	"io"

	"github.com/codalotl/difftview/internal/display"
)

// Record is the top-level JSON document: {"files": [...]}.
type Record struct {
	Files []FileRecord `json:"files"`
}

// FileRecord is the JSON form of a display.DisplayFile.
type FileRecord struct {
	Path       string      `json:"path"`
	Language   string      `json:"language"`
	Status     string      `json:"status"`
	Additions  int         `json:"additions"`
	Deletions  int         `json:"deletions"`
	Rows       []RowRecord `json:"rows"`
	HunkStarts []int       `json:"hunk_starts"`
}

// RowRecord is the JSON form of a display.Row.
type RowRecord struct {
	Left  SideRecord `json:"left"`
	Right SideRecord `json:"right"`
}

// SideRecord is the JSON form of a display.Side. A full-line highlight is {"start": 0, "end": -1}.
type SideRecord struct {
	Content    string         `json:"content"`
	IsFiller   bool           `json:"is_filler"`
	Highlights []RegionRecord `json:"highlights"`
}

// RegionRecord is the JSON form of a display.HighlightRegion.
type RegionRecord struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ToRecord converts files to a Record. Empty slices are emitted as [] rather than null.
func ToRecord(files []display.DisplayFile) Record {
	rec := Record{Files: make([]FileRecord, 0, len(files))}
	for _, f := range files {
		rec.Files = append(rec.Files, fileRecord(f))
	}
	return rec
}

func fileRecord(f display.DisplayFile) FileRecord {
	fr := FileRecord{
		Path:       f.Path,
		Language:   f.Language,
		Status:     f.Status.String(),
		Additions:  f.Additions,
		Deletions:  f.Deletions,
		Rows:       make([]RowRecord, 0, len(f.Rows)),
		HunkStarts: append([]int{}, f.HunkStarts...),
	}
	for _, r := range f.Rows {
		fr.Rows = append(fr.Rows, RowRecord{Left: sideRecord(r.Left), Right: sideRecord(r.Right)})
	}
	return fr
}

func sideRecord(s display.Side) SideRecord {
	sr := SideRecord{
		Content:    s.Content,
		IsFiller:   s.IsFiller,
		Highlights: make([]RegionRecord, 0, len(s.Highlights)),
	}
	for _, h := range s.Highlights {
		sr.Highlights = append(sr.Highlights, RegionRecord{Start: h.Start, End: h.End})
	}
	return sr
}

// EncodeJSON writes files to w as an indented Record followed by a newline.
func EncodeJSON(w io.Writer, files []display.DisplayFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ToRecord(files))
}
