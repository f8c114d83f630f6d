package detectlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPath(t *testing.T) {
	tcs := []struct {
		path string
		lang Lang
	}{
		{path: "main.go", lang: "Go"},
		{path: "src/lib.rs", lang: "Rust"},
		{path: "web/App.TSX", lang: "TypeScript TSX"},
		{path: "include/x.hpp", lang: "C++"},
		{path: "a/b/Makefile", lang: "Makefile"},
		{path: "go.mod", lang: "Go module"},
		{path: "README", lang: LangText},
		{path: "notes.unknownext", lang: LangText},
		{path: "", lang: LangText},
	}

	for _, tc := range tcs {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.lang, FromPath(tc.path))
		})
	}
}
