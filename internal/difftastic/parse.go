package difftastic

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// maxLineSize bounds a single newline-delimited object. difftastic writes a whole file's diff on one line, so this is large.
const maxLineSize = 64 * 1024 * 1024

// Parse parses difftastic JSON output. It first tries a JSON array of files (jj's format); if that fails, it parses each non-blank line as one file object (git's
// format). Empty or whitespace-only input yields no files and no error.
func Parse(data []byte) ([]File, error) {
	var files []File
	if err := json.Unmarshal(data, &files); err == nil {
		return files, nil
	}

	files = nil
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var f File
		if err := json.Unmarshal(line, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		files = append(files, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return files, nil
}
