// Package detectlang names the language of a file from its path, using the display names difftastic reports (ex: "Rust", "Go", "TypeScript TSX").
//
// It is used when diffs are produced without difftastic, so that the language field of a display file is populated the same way either way.
package detectlang

import (
	"path/filepath"
	"strings"
)

// Lang is a language display name.
type Lang string

// LangText is returned for paths with no recognized extension or filename. difftastic uses the same name for its line-based fallback.
const LangText Lang = "Text"

var extToLang = map[string]Lang{
	".go":    "Go",
	".rb":    "Ruby",
	".py":    "Python",
	".pyi":   "Python",
	".rs":    "Rust",
	".js":    "JavaScript",
	".mjs":   "JavaScript",
	".cjs":   "JavaScript",
	".jsx":   "JavaScript JSX",
	".ts":    "TypeScript",
	".mts":   "TypeScript",
	".tsx":   "TypeScript TSX",
	".java":  "Java",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".cxx":   "C++",
	".hpp":   "C++",
	".hh":    "C++",
	".hxx":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".kts":   "Kotlin",
	".scala": "Scala",
	".m":     "Objective-C",
	".mm":    "Objective-C",
	".lua":   "Lua",
	".sh":    "Bash",
	".bash":  "Bash",
	".json":  "JSON",
	".toml":  "TOML",
	".yaml":  "YAML",
	".yml":   "YAML",
	".md":    "Markdown",
	".html":  "HTML",
	".css":   "CSS",
	".sql":   "SQL",
	".zig":   "Zig",
	".nix":   "Nix",
}

// baseToLang matches whole file names that have no useful extension.
var baseToLang = map[string]Lang{
	"Makefile":       "Makefile",
	"GNUmakefile":    "Makefile",
	"Dockerfile":     "Dockerfile",
	"go.mod":         "Go module",
	"CMakeLists.txt": "CMake",
}

// FromPath returns the language for path, judged only by its base name and extension (the file need not exist). Extension matching is case-insensitive. Unknown
// files are LangText.
func FromPath(path string) Lang {
	base := filepath.Base(path)
	if lang, ok := baseToLang[base]; ok {
		return lang
	}
	if lang, ok := extToLang[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return LangText
}
