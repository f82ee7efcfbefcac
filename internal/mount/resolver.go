package mount

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/uenv-dev/uenv/internal/repository"
)

// Well-known mount points used when image tokens carry no explicit mount.
const (
	DefaultPrimary   = "/user-environment"
	DefaultSecondary = "/user-tools"
)

var (
	ErrNoEnvironment  = errors.New("no environment provided")
	ErrMixedMounts    = errors.New("mount point required")
	ErrMissingCluster = errors.New("cluster name is not set: set CLUSTER_NAME")
	ErrNoRepository   = errors.New("no uenv repository configured: use --repo or set UENV_REPO_PATH")
	ErrNotFound       = errors.New("no uenv matches")
	ErrAmbiguous      = errors.New("ambiguous uenv")
)

// Options configure a Resolver.
type Options struct {
	Primary   string // default mount for the first image
	Secondary string // default mount for the second image
	Cluster   string // required for repository lookups
	Uarch     string // optional micro-architecture filter
	Repo      repository.Repository
}

// Resolver turns image tokens into mount pairs.
type Resolver struct {
	opts Options
}

// NewResolver returns a Resolver, filling in the default mount points.
func NewResolver(opts Options) *Resolver {
	if opts.Primary == "" {
		opts.Primary = DefaultPrimary
	}
	if opts.Secondary == "" {
		opts.Secondary = DefaultSecondary
	}
	return &Resolver{opts: opts}
}

// Resolve maps tokens to pairs in input order. Any failure aborts the whole
// resolution; a partial list is never returned.
func (r *Resolver) Resolve(tokens []string) ([]Pair, error) {
	specs, err := r.assignMounts(tokens)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(specs))
	for _, spec := range specs {
		src, err := r.resolveSource(spec.Image)
		if err != nil {
			return nil, err
		}
		if err := ValidateMountPoint(spec.Mount); err != nil {
			return nil, err
		}
		pair := Pair{Source: src, Mount: spec.Mount}
		if err := CheckEncodable(pair); err != nil {
			return nil, fmt.Errorf("cannot mount %s: %w", spec.Image, err)
		}
		log.Debug("resolved image", "spec", spec.Image, "source", src, "mount", spec.Mount)
		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// assignMounts applies the default-mount policy: the first token decides
// between implicit mode (defaults for the first two images) and explicit
// mode (every image names its mount). A third image always needs a mount.
func (r *Resolver) assignMounts(tokens []string) ([]*Spec, error) {
	if len(tokens) == 0 {
		return nil, ErrNoEnvironment
	}

	specs := make([]*Spec, len(tokens))
	for i, tok := range tokens {
		spec, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}

	implicit := !specs[0].Explicit()
	if implicit {
		specs[0].Mount = r.opts.Primary
	}

	if len(specs) > 1 && !specs[1].Explicit() {
		if !implicit {
			return nil, fmt.Errorf("%w for %s: the first image was given an explicit mount point, so every image must have one", ErrMixedMounts, specs[1].Image)
		}
		specs[1].Mount = r.opts.Secondary
	}

	for _, spec := range specs[min(2, len(specs)):] {
		if !spec.Explicit() {
			return nil, fmt.Errorf("%w for %s: only the first two images can use default mount points", ErrMixedMounts, spec.Image)
		}
	}

	return specs, nil
}

// resolveSource returns the image file for a token: a local file if one
// exists, otherwise the unique repository match.
func (r *Resolver) resolveSource(image string) (string, error) {
	if path, ok := isImageFile(image); ok {
		return path, nil
	}
	if filepath.IsAbs(image) {
		return "", fmt.Errorf("image file %s does not exist", image)
	}

	filter, err := repository.ParseReference(image)
	if err != nil {
		return "", err
	}
	if r.opts.Cluster == "" {
		return "", ErrMissingCluster
	}
	if r.opts.Repo == nil {
		return "", ErrNoRepository
	}
	filter.System = r.opts.Cluster
	filter.Uarch = r.opts.Uarch

	res, err := r.opts.Repo.Find(filter)
	if err != nil {
		return "", err
	}

	switch {
	case res.IsEmpty():
		return "", fmt.Errorf("%w %s on %s", ErrNotFound, describe(filter), filter.System)
	case !res.IsUniqueMatch():
		return "", fmt.Errorf("%w %s matches more than one image:%s", ErrAmbiguous, describe(filter), res.AmbiguityMessage())
	}

	return r.opts.Repo.PathOf(res.Records[0]), nil
}

func describe(f repository.Filter) string {
	if f.Uarch != "" {
		return fmt.Sprintf("%s (uarch=%s)", f, f.Uarch)
	}
	return f.String()
}
