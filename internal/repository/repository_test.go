package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shaGromacsV1 = "1111111111111111aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	shaGromacsV2 = "2222222222222222bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	shaDDT       = "3333333333333333cccccccccccccccccccccccccccccccccccccccccccccccc"
)

const testIndex = `images:
  - name: gromacs
    version: "2023.1"
    tag: v1
    system: daint
    uarch: gh200
    sha256: ` + shaGromacsV1 + `
  - name: gromacs
    version: "2023.1"
    tag: latest
    system: daint
    uarch: gh200
    sha256: ` + shaGromacsV1 + `
  - name: gromacs
    version: "2024.2"
    tag: v1
    system: daint
    uarch: gh200
    sha256: ` + shaGromacsV2 + `
  - name: ddt
    version: "24.1"
    tag: v1
    system: daint
    uarch: gh200
    sha256: ` + shaDDT + `
  - name: ddt
    version: "24.1"
    tag: v1
    system: eiger
    uarch: zen2
    sha256: 4444444444444444dddddddddddddddddddddddddddddddddddddddddddddddd
`

func writeRepo(t *testing.T, index string) *FileRepository {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte(index), 0o644))
	return NewFileRepository(dir)
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Filter
		wantErr bool
	}{
		{name: "name only", in: "gromacs", want: Filter{Name: "gromacs"}},
		{name: "name and version", in: "gromacs/2023.1", want: Filter{Name: "gromacs", Version: "2023.1"}},
		{name: "name and tag", in: "gromacs:v1", want: Filter{Name: "gromacs", Tag: "v1"}},
		{name: "full reference", in: "gromacs/2023.1:v1", want: Filter{Name: "gromacs", Version: "2023.1", Tag: "v1"}},
		{name: "short id", in: "1111111111111111", want: Filter{ID: "1111111111111111"}},
		{name: "full id", in: shaDDT, want: Filter{ID: shaDDT}},
		{name: "empty", in: "", wantErr: true},
		{name: "missing name", in: "/2023.1", wantErr: true},
		{name: "empty version", in: "gromacs/", wantErr: true},
		{name: "empty tag", in: "gromacs:", wantErr: true},
		{name: "nested version", in: "gromacs/a/b", wantErr: true},
		{name: "double tag", in: "gromacs:a:b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReference(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID("0123456789abcdef"))
	assert.True(t, IsID(shaDDT))
	assert.False(t, IsID("0123456789ABCDEF"))
	assert.False(t, IsID("gromacs"))
	assert.False(t, IsID("0123456789abcdeg"))
}

func TestFind(t *testing.T) {
	repo := writeRepo(t, testIndex)

	tests := []struct {
		name       string
		filter     Filter
		wantCount  int
		wantEmpty  bool
		wantUnique bool
	}{
		{name: "unique by version", filter: Filter{Name: "gromacs", Version: "2023.1", System: "daint"}, wantCount: 2, wantUnique: true},
		{name: "ambiguous by name", filter: Filter{Name: "gromacs", System: "daint"}, wantCount: 3},
		{name: "tag narrows", filter: Filter{Name: "gromacs", Tag: "latest", System: "daint"}, wantCount: 1, wantUnique: true},
		{name: "system narrows", filter: Filter{Name: "ddt", System: "eiger"}, wantCount: 1, wantUnique: true},
		{name: "uarch narrows", filter: Filter{Name: "ddt", System: "daint", Uarch: "gh200"}, wantCount: 1, wantUnique: true},
		{name: "wrong uarch", filter: Filter{Name: "ddt", System: "daint", Uarch: "zen2"}, wantEmpty: true},
		{name: "unknown name", filter: Filter{Name: "quantumespresso", System: "daint"}, wantEmpty: true},
		{name: "short id", filter: Filter{ID: "3333333333333333", System: "daint"}, wantCount: 1, wantUnique: true},
		{name: "full id", filter: Filter{ID: shaGromacsV2}, wantCount: 1, wantUnique: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.Find(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmpty, res.IsEmpty())
			assert.Equal(t, tt.wantUnique, res.IsUniqueMatch())
			if !tt.wantEmpty {
				assert.Len(t, res.Records, tt.wantCount)
			}
		})
	}
}

func TestFindSortsRecords(t *testing.T) {
	repo := writeRepo(t, testIndex)

	res, err := repo.Find(Filter{System: "daint"})
	require.NoError(t, err)

	var names []string
	for _, r := range res.Records {
		names = append(names, r.String())
	}
	assert.Equal(t, []string{
		"ddt/24.1:v1",
		"gromacs/2023.1:latest",
		"gromacs/2023.1:v1",
		"gromacs/2024.2:v1",
	}, names)
}

func TestAmbiguityMessage(t *testing.T) {
	repo := writeRepo(t, testIndex)

	res, err := repo.Find(Filter{Name: "gromacs", System: "daint"})
	require.NoError(t, err)
	require.False(t, res.IsUniqueMatch())

	msg := res.AmbiguityMessage()
	assert.Contains(t, msg, "gromacs/2023.1")
	assert.Contains(t, msg, "gromacs/2024.2:v1")
	// one line per distinct image
	assert.Equal(t, 2, strings.Count(msg, "\n"))
}

func TestPathOf(t *testing.T) {
	repo := NewFileRepository("/scratch/.uenv-images")
	got := repo.PathOf(Record{SHA256: shaDDT})
	assert.Equal(t, filepath.Join("/scratch/.uenv-images", "images", shaDDT, "store.squashfs"), got)
}

func TestFindUnavailable(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "nope"))
		_, err := repo.Find(Filter{Name: "gromacs"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("missing index", func(t *testing.T) {
		repo := NewFileRepository(t.TempDir())
		_, err := repo.Find(Filter{Name: "gromacs"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("corrupt index", func(t *testing.T) {
		repo := writeRepo(t, "images: [unterminated")
		_, err := repo.Find(Filter{Name: "gromacs"})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "corrupt index")
	})
}
