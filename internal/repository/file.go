package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// IndexFile is the name of the index at the repository root.
const IndexFile = "index.yaml"

// FileRepository is a repository directory laid out as
//
//	<dir>/index.yaml
//	<dir>/images/<sha256>/store.squashfs
type FileRepository struct {
	dir string
}

type index struct {
	Images []Record `yaml:"images"`
}

// NewFileRepository returns a repository rooted at dir. Nothing is read
// until the first Find.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// IndexPath returns the path to the index file
func (r *FileRepository) IndexPath() string {
	return filepath.Join(r.dir, IndexFile)
}

// PathOf returns the squashfs image for a record.
func (r *FileRepository) PathOf(rec Record) string {
	return filepath.Join(r.dir, "images", rec.SHA256, "store.squashfs")
}

// Find returns every record matching f, sorted by name, version, tag and uarch.
func (r *FileRepository) Find(f Filter) (Result, error) {
	idx, err := r.load()
	if err != nil {
		return Result{}, err
	}

	var matches []Record
	for _, rec := range idx.Images {
		if f.Matches(rec) {
			matches = append(matches, rec)
		}
	}
	sortRecords(matches)

	return Result{Records: matches}, nil
}

func (r *FileRepository) load() (*index, error) {
	info, err := os.Stat(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrUnavailable, r.dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnavailable, r.dir)
	}

	data, err := os.ReadFile(r.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read index: %v", ErrUnavailable, err)
	}

	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: corrupt index %s: %v", ErrUnavailable, r.IndexPath(), err)
	}

	return &idx, nil
}
