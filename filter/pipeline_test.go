package filter

import (
	"io"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-git/wtsync/attrs"
)

func newResolverWithAttrs(t *testing.T, content string) *attrs.Resolver {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(".", os.ModePerm))
	f, err := fs.Create(".gitattributes")
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return attrs.NewResolver(fs)
}

// TestCRLFRoundTrip is §8 S3: a "text" path round-trips LF-stored content
// through CRLF on to-worktree and back to LF on to-odb.
func TestCRLFRoundTrip(t *testing.T) {
	resolver := newResolverWithAttrs(t, "*.txt text\n")

	filters, err := Load(resolver, "hello.txt", false, ToWorktree)
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "crlf", filters[0].Name)

	stored := []byte("hello\nworld\n")
	worktree, err := Apply(filters, ToWorktree, stored, SourceMeta{Path: "hello.txt"})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\r\nworld\r\n"), worktree)

	odbFilters, err := Load(resolver, "hello.txt", false, ToODB)
	require.NoError(t, err)
	back, err := Apply(odbFilters, ToODB, worktree, SourceMeta{Path: "hello.txt"})
	require.NoError(t, err)
	assert.Equal(t, stored, back)
}

func TestCRLFSkippedWhenTextAttributeFalse(t *testing.T) {
	resolver := newResolverWithAttrs(t, "*.bin -text\n")

	filters, err := Load(resolver, "a.bin", false, ToWorktree)
	require.NoError(t, err)
	assert.Empty(t, filters, "a path with text=-text never selects the CRLF filter")
}

func TestCRLFLeavesBinaryContentUntouched(t *testing.T) {
	resolver := newResolverWithAttrs(t, "*.txt text\n")

	filters, err := Load(resolver, "x.txt", false, ToWorktree)
	require.NoError(t, err)

	binary := []byte("abc\x00def\n")
	out, err := Apply(filters, ToWorktree, binary, SourceMeta{Path: "x.txt"})
	require.NoError(t, err)
	assert.Equal(t, binary, out, "content sniffed as binary must pass through unconverted")
}

func TestIdentExpandsAndStrips(t *testing.T) {
	resolver := newResolverWithAttrs(t, "*.go ident\n")

	toWorktree, err := Load(resolver, "main.go", false, ToWorktree)
	require.NoError(t, err)
	require.Len(t, toWorktree, 1)

	src := []byte("// $Id$\npackage main\n")
	expanded, err := Apply(toWorktree, ToWorktree, src, SourceMeta{Path: "main.go", OID: "deadbeef"})
	require.NoError(t, err)
	assert.Equal(t, []byte("// $Id: deadbeef$\npackage main\n"), expanded)

	toODB, err := Load(resolver, "main.go", false, ToODB)
	require.NoError(t, err)
	stripped, err := Apply(toODB, ToODB, expanded, SourceMeta{Path: "main.go"})
	require.NoError(t, err)
	assert.Equal(t, src, stripped)
}

// TestIdentRunsBeforeCRLFOnToWorktree verifies §4.B's priority ordering
// in the ToWorktree direction: when both filters are selected, ident
// expansion runs before CRLF converts line endings, so the keyword
// expansion operates on LF text.
func TestIdentRunsBeforeCRLFOnToWorktree(t *testing.T) {
	resolver := newResolverWithAttrs(t, "*.txt text ident\n")

	toWorktree, err := Load(resolver, "f.txt", false, ToWorktree)
	require.NoError(t, err)
	require.Len(t, toWorktree, 2)
	assert.Equal(t, "ident", toWorktree[0].Name, "ToWorktree traverses in reverse priority order: ident (higher priority) first")
	assert.Equal(t, "crlf", toWorktree[1].Name)

	src := []byte("$Id$\nhello\n")
	out, err := Apply(toWorktree, ToWorktree, src, SourceMeta{Path: "f.txt", OID: "cafe"})
	require.NoError(t, err)
	assert.Equal(t, []byte("$Id: cafe$\r\nhello\r\n"), out)
}

func TestRegistryReplacesSameName(t *testing.T) {
	Register(&Filter{
		Name:     "crlf",
		Priority: 999,
		Stream: func(direction Direction, dst io.Writer, meta SourceMeta) (io.Writer, error) {
			return dst, nil
		},
	})
	t.Cleanup(func() { Register(NewCRLF()) })

	found := false
	for _, f := range Registered() {
		if f.Name == "crlf" {
			found = true
			assert.Equal(t, 999, f.Priority, "re-registering an existing name replaces it in place rather than appending a duplicate")
		}
	}
	assert.True(t, found)
}
