// Package repository looks up uenv images by name, version and tag.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnavailable is returned when the repository cannot be read.
	ErrUnavailable = errors.New("uenv repository unavailable")
	// ErrInvalidReference is returned for malformed name/version:tag strings.
	ErrInvalidReference = errors.New("invalid uenv reference")
)

// Record describes one labelled image in the repository. Several records
// may share a SHA256 when the same image is published under more than one
// tag.
type Record struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Tag     string `yaml:"tag"`
	System  string `yaml:"system"`
	Uarch   string `yaml:"uarch"`
	SHA256  string `yaml:"sha256"`
	Date    string `yaml:"date,omitempty"`
}

// ID is the short form of the image hash.
func (r Record) ID() string {
	if len(r.SHA256) < 16 {
		return r.SHA256
	}
	return r.SHA256[:16]
}

func (r Record) String() string {
	return fmt.Sprintf("%s/%s:%s", r.Name, r.Version, r.Tag)
}

// Filter selects records. Empty fields match anything.
type Filter struct {
	Name    string
	Version string
	Tag     string
	System  string
	Uarch   string
	ID      string // full or short sha256
}

func (f Filter) String() string {
	if f.ID != "" {
		return f.ID
	}
	s := f.Name
	if f.Version != "" {
		s += "/" + f.Version
	}
	if f.Tag != "" {
		s += ":" + f.Tag
	}
	return s
}

// Matches reports whether r satisfies every non-empty field of f.
func (f Filter) Matches(r Record) bool {
	if f.ID != "" {
		if r.SHA256 != f.ID && r.ID() != f.ID {
			return false
		}
	}
	return matchField(f.Name, r.Name) &&
		matchField(f.Version, r.Version) &&
		matchField(f.Tag, r.Tag) &&
		matchField(f.System, r.System) &&
		matchField(f.Uarch, r.Uarch)
}

func matchField(want, got string) bool {
	return want == "" || want == got
}

// ParseReference parses name[/version][:tag], or a full/short image hash.
func ParseReference(s string) (Filter, error) {
	if IsID(s) {
		return Filter{ID: s}, nil
	}

	rest, tag, hasTag := strings.Cut(s, ":")
	name, version, hasVersion := strings.Cut(rest, "/")

	switch {
	case name == "":
		return Filter{}, fmt.Errorf("%w %q: missing name", ErrInvalidReference, s)
	case hasVersion && (version == "" || strings.Contains(version, "/")):
		return Filter{}, fmt.Errorf("%w %q: bad version", ErrInvalidReference, s)
	case hasTag && (tag == "" || strings.Contains(tag, ":")):
		return Filter{}, fmt.Errorf("%w %q: bad tag", ErrInvalidReference, s)
	}

	return Filter{Name: name, Version: version, Tag: tag}, nil
}

// IsID reports whether s looks like a full (64) or short (16) sha256.
func IsID(s string) bool {
	if len(s) != 16 && len(s) != 64 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

// Result is the outcome of a Find.
type Result struct {
	Records []Record
}

// IsEmpty reports whether nothing matched.
func (r Result) IsEmpty() bool {
	return len(r.Records) == 0
}

// IsUniqueMatch reports whether every matching record refers to the same image.
func (r Result) IsUniqueMatch() bool {
	if r.IsEmpty() {
		return false
	}
	sha := r.Records[0].SHA256
	for _, rec := range r.Records[1:] {
		if rec.SHA256 != sha {
			return false
		}
	}
	return true
}

// AmbiguityMessage lists the distinct images behind an ambiguous result.
func (r Result) AmbiguityMessage() string {
	var sb strings.Builder
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		if seen[rec.SHA256] {
			continue
		}
		seen[rec.SHA256] = true
		fmt.Fprintf(&sb, "\n  %-32s %-12s %-8s %s", rec.String(), rec.System, rec.Uarch, rec.ID())
	}
	return sb.String()
}

func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		if a.Tag != b.Tag {
			return a.Tag < b.Tag
		}
		return a.Uarch < b.Uarch
	})
}

// Repository is the lookup service used to turn references into image files.
type Repository interface {
	Find(f Filter) (Result, error)
	PathOf(r Record) string
}
