package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/difftview/internal/difftastic"
)

func diffSide(line int, changes ...difftastic.Change) *difftastic.LineSide {
	return &difftastic.LineSide{LineNumber: line, Changes: changes}
}

// requireRowInvariants checks invariants that hold for every DisplayFile.
func requireRowInvariants(t *testing.T, f DisplayFile) {
	t.Helper()
	for i, r := range f.Rows {
		require.False(t, r.Left.IsFiller && r.Right.IsFiller, "row %d: both sides filler", i)
		for _, s := range []Side{r.Left, r.Right} {
			if s.IsFiller {
				require.Empty(t, s.Content, "row %d", i)
				require.Empty(t, s.Highlights, "row %d", i)
			}
		}
	}
	for i, h := range f.HunkStarts {
		require.GreaterOrEqual(t, h, 0)
		require.Less(t, h, len(f.Rows))
		if i > 0 {
			require.Greater(t, h, f.HunkStarts[i-1])
		}
	}
}

func TestProcessFile_Created(t *testing.T) {
	f := difftastic.File{Path: "new.rs", Language: "Rust", Status: difftastic.StatusCreated}
	got := ProcessFile(f, nil, []string{"a", "b"}, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 2)
	for _, r := range got.Rows {
		assert.True(t, r.Left.IsFiller)
		assert.False(t, r.Right.IsFiller)
		assert.Equal(t, []HighlightRegion{FullLine()}, r.Right.Highlights)
	}
	assert.Equal(t, "a", got.Rows[0].Right.Content)
	assert.Equal(t, "b", got.Rows[1].Right.Content)
	assert.Equal(t, 2, got.Additions)
	assert.Equal(t, 0, got.Deletions)
	assert.Equal(t, []int{0}, got.HunkStarts)
	assert.Equal(t, "new.rs", got.Path)
	assert.Equal(t, "Rust", got.Language)
	assert.Equal(t, difftastic.StatusCreated, got.Status)
}

func TestProcessFile_Deleted(t *testing.T) {
	f := difftastic.File{Path: "old.rs", Language: "Rust", Status: difftastic.StatusDeleted}
	got := ProcessFile(f, []string{"x", "y"}, nil, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 2)
	assert.Equal(t, "x", got.Rows[0].Left.Content)
	assert.False(t, got.Rows[0].Left.IsFiller)
	assert.Equal(t, []HighlightRegion{FullLine()}, got.Rows[0].Left.Highlights)
	assert.True(t, got.Rows[0].Right.IsFiller)
	assert.Equal(t, 0, got.Additions)
	assert.Equal(t, 2, got.Deletions)
	assert.Equal(t, []int{0}, got.HunkStarts)
}

func TestProcessFile_EmptyCreatedAndDeleted(t *testing.T) {
	created := ProcessFile(difftastic.File{Status: difftastic.StatusCreated}, nil, nil, nil)
	assert.Empty(t, created.Rows)
	assert.Empty(t, created.HunkStarts)

	deleted := ProcessFile(difftastic.File{Status: difftastic.StatusDeleted}, nil, nil, nil)
	assert.Empty(t, deleted.Rows)
	assert.Empty(t, deleted.HunkStarts)
}

func TestProcessFile_CreatedIgnoresAlignment(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusCreated,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0)},
	}
	got := ProcessFile(f, []string{"ignored"}, []string{"a", "b", "c"}, nil)
	assert.Len(t, got.Rows, 3)
}

func TestProcessFile_AlignedModification(t *testing.T) {
	f := difftastic.File{
		Path:         "mod.rs",
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0), difftastic.Aligned(1, 1)},
		Chunks: []difftastic.Chunk{{
			{Lhs: diffSide(1, change(0, 3)), Rhs: diffSide(1, change(0, 6))},
		}},
	}
	got := ProcessFile(f, []string{"x", "foo"}, []string{"x", "foobar"}, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 2)
	assert.Empty(t, got.Rows[0].Left.Highlights)
	assert.Empty(t, got.Rows[0].Right.Highlights)
	assert.Equal(t, "foo", got.Rows[1].Left.Content)
	assert.Equal(t, "foobar", got.Rows[1].Right.Content)
	assert.NotEmpty(t, got.Rows[1].Left.Highlights)
	assert.NotEmpty(t, got.Rows[1].Right.Highlights)
	assert.Equal(t, []int{1}, got.HunkStarts)
	assert.Equal(t, 1, got.Additions)
	assert.Equal(t, 1, got.Deletions)
}

func TestProcessFile_FillerInsertion(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0), difftastic.NewOnly(1), difftastic.Aligned(1, 2)},
		Chunks:       []difftastic.Chunk{{{Rhs: diffSide(1, change(0, 8))}}},
	}
	got := ProcessFile(f, []string{"line 1", "line 3"}, []string{"line 1", "new line", "line 3"}, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 3)
	assert.True(t, got.Rows[1].Left.IsFiller)
	assert.Equal(t, "", got.Rows[1].Left.Content)
	assert.Equal(t, "new line", got.Rows[1].Right.Content)
	assert.False(t, got.Rows[1].Right.IsFiller)
	assert.Equal(t, "line 3", got.Rows[2].Left.Content)
	assert.Equal(t, "line 3", got.Rows[2].Right.Content)
	assert.Equal(t, []int{1}, got.HunkStarts)
	assert.Equal(t, 1, got.Additions)
	assert.Equal(t, 0, got.Deletions)
}

func TestProcessFile_DeletionFiller(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0), difftastic.OldOnly(1), difftastic.Aligned(2, 1)},
		Chunks:       []difftastic.Chunk{{{Lhs: diffSide(1, change(0, 7))}}},
	}
	got := ProcessFile(f, []string{"line 1", "deleted", "line 3"}, []string{"line 1", "line 3"}, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, "deleted", got.Rows[1].Left.Content)
	assert.False(t, got.Rows[1].Left.IsFiller)
	assert.True(t, got.Rows[1].Right.IsFiller)
}

func TestProcessFile_Expansion(t *testing.T) {
	f := difftastic.File{
		Status: difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{
			difftastic.Aligned(0, 0),
			difftastic.NewOnly(1),
			difftastic.NewOnly(2),
			difftastic.NewOnly(3),
			difftastic.NewOnly(4),
		},
		Chunks: []difftastic.Chunk{{
			{Lhs: diffSide(0, change(0, 16)), Rhs: diffSide(0, change(0, 6))},
			{Rhs: diffSide(1, change(0, 6))},
			{Rhs: diffSide(2, change(0, 6))},
			{Rhs: diffSide(3, change(0, 6))},
			{Rhs: diffSide(4, change(0, 1))},
		}},
	}
	oldLines := []string{"Self { a, b, c }"}
	newLines := []string{"Self {", "    a,", "    b,", "    c,", "}"}

	got := ProcessFile(f, oldLines, newLines, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 5)
	assert.Equal(t, "Self { a, b, c }", got.Rows[0].Left.Content)
	assert.Equal(t, "Self {", got.Rows[0].Right.Content)
	assert.True(t, got.Rows[1].Left.IsFiller)
	assert.Equal(t, "    a,", got.Rows[1].Right.Content)
	assert.Equal(t, []HighlightRegion{FullLine()}, got.Rows[1].Right.Highlights)
	assert.Equal(t, []int{0}, got.HunkStarts)
	assert.Equal(t, 5, got.Additions)
	assert.Equal(t, 1, got.Deletions)
}

func TestProcessFile_Contraction(t *testing.T) {
	f := difftastic.File{
		Status: difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{
			difftastic.OldOnly(0),
			difftastic.OldOnly(1),
			difftastic.OldOnly(2),
			difftastic.Aligned(3, 0),
			difftastic.OldOnly(4),
		},
		Chunks: []difftastic.Chunk{{
			{Lhs: diffSide(0, change(0, 6))},
			{Lhs: diffSide(1, change(0, 6))},
			{Lhs: diffSide(2, change(0, 6))},
			{Lhs: diffSide(3, change(0, 6)), Rhs: diffSide(0, change(0, 16))},
			{Lhs: diffSide(4, change(0, 1))},
		}},
	}
	oldLines := []string{"Self {", "    a,", "    b,", "    c,", "}"}
	newLines := []string{"Self { a, b, c }"}

	got := ProcessFile(f, oldLines, newLines, nil)
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 5)
	assert.Equal(t, "Self {", got.Rows[0].Left.Content)
	assert.True(t, got.Rows[0].Right.IsFiller)
	assert.Equal(t, "    c,", got.Rows[3].Left.Content)
	assert.Equal(t, "Self { a, b, c }", got.Rows[3].Right.Content)
}

func TestProcessFile_HunkStarts(t *testing.T) {
	f := difftastic.File{
		Status: difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{
			difftastic.Aligned(0, 0), // unchanged
			difftastic.Aligned(1, 1), // changed
			difftastic.Aligned(2, 2), // changed
			difftastic.Aligned(3, 3), // unchanged
			difftastic.Aligned(4, 4), // unchanged
			difftastic.NewOnly(5),    // added
		},
		Chunks: []difftastic.Chunk{
			{
				{Lhs: diffSide(1, change(0, 3)), Rhs: diffSide(1, change(0, 3))},
				{Lhs: diffSide(2, change(0, 3)), Rhs: diffSide(2, change(0, 3))},
			},
			{{Rhs: diffSide(5, change(0, 5))}},
		},
	}
	oldLines := []string{"aaa", "bbb", "ccc", "ddd", "eee"}
	newLines := []string{"aaa", "BBB", "CCC", "ddd", "eee", "fff"}

	got := ProcessFile(f, oldLines, newLines, nil)
	requireRowInvariants(t, got)
	assert.Equal(t, []int{1, 5}, got.HunkStarts)

	next, ok := got.NextHunk(1)
	assert.True(t, ok)
	assert.Equal(t, 5, next)
	_, ok = got.NextHunk(5)
	assert.False(t, ok)
	first, ok := got.NextHunk(-1)
	assert.True(t, ok)
	assert.Equal(t, 1, first)
}

func TestProcessFile_AllUnchanged(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0), difftastic.Aligned(1, 1)},
		Chunks:       []difftastic.Chunk{{{Lhs: diffSide(1), Rhs: diffSide(1)}}},
	}
	got := ProcessFile(f, []string{"a", "b"}, []string{"a", "b"}, nil)
	assert.Len(t, got.Rows, 2)
	assert.Empty(t, got.HunkStarts)
}

func TestProcessFile_OutOfRangeLinesDegrade(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0), difftastic.Aligned(7, 9)},
		Chunks:       []difftastic.Chunk{{{Lhs: diffSide(7, change(0, 3)), Rhs: diffSide(9, change(2, 4))}}},
	}

	var got DisplayFile
	require.NotPanics(t, func() {
		got = ProcessFile(f, []string{"a"}, []string{"a"}, nil)
	})
	requireRowInvariants(t, got)

	require.Len(t, got.Rows, 2)
	assert.Equal(t, "", got.Rows[1].Left.Content)
	assert.False(t, got.Rows[1].Left.IsFiller)
	assert.Equal(t, "", got.Rows[1].Right.Content)
	assert.Equal(t, []HighlightRegion{FullLine()}, got.Rows[1].Left.Highlights)
	assert.Equal(t, []HighlightRegion{{Start: 2, End: 4}}, got.Rows[1].Right.Highlights)
}

func TestProcessFile_StatsOverride(t *testing.T) {
	f := difftastic.File{
		Status:       difftastic.StatusChanged,
		AlignedLines: []difftastic.AlignedLine{difftastic.Aligned(0, 0)},
		Chunks:       []difftastic.Chunk{{{Lhs: diffSide(0, change(0, 1)), Rhs: diffSide(0, change(0, 1))}}},
	}
	got := ProcessFile(f, []string{"a"}, []string{"b"}, &Stats{Additions: 10, Deletions: 3})
	assert.Equal(t, 10, got.Additions)
	assert.Equal(t, 3, got.Deletions)

	created := ProcessFile(difftastic.File{Status: difftastic.StatusCreated}, nil, []string{"a"}, &Stats{Additions: 7})
	assert.Equal(t, 7, created.Additions)
	assert.Equal(t, 0, created.Deletions)
}

func TestBuildChangeIndex(t *testing.T) {
	oldIndex, newIndex := BuildChangeIndex(nil)
	assert.Empty(t, oldIndex)
	assert.Empty(t, newIndex)

	chunks := []difftastic.Chunk{
		{
			{Lhs: diffSide(1, change(0, 1))},
			{Lhs: diffSide(2, change(0, 2)), Rhs: diffSide(4, change(1, 2))},
		},
		{
			{Lhs: diffSide(1, change(5, 6))},
		},
	}
	oldIndex, newIndex = BuildChangeIndex(chunks)
	assert.Len(t, oldIndex, 2)
	assert.Len(t, newIndex, 1)
	assert.Equal(t, []difftastic.Change{change(5, 6)}, oldIndex[1]) // last write wins
	assert.Equal(t, []difftastic.Change{change(1, 2)}, newIndex[4])
}
