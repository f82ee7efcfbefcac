package mount

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Spec is an image token as typed by the user, before resolution.
type Spec struct {
	Image string // file path or name[/version][:tag]
	Mount string // explicit mount point, empty when implicit
}

// Explicit reports whether the token carried its own mount point.
func (s *Spec) Explicit() bool {
	return s.Mount != ""
}

// Parse parses an image token.
//
// Formats:
//   - "gromacs/2023.1" -> Spec{Image: "gromacs/2023.1"}
//   - "gromacs:v1" -> Spec{Image: "gromacs:v1"} (tag, not a mount)
//   - "/scratch/img.squashfs:/user-tools" -> Spec{Image: "/scratch/img.squashfs", Mount: "/user-tools"}
//   - "gromacs/2023.1:v1:/opt/gromacs" -> Spec{Image: "gromacs/2023.1:v1", Mount: "/opt/gromacs"}
//
// Only the last colon is considered, and only when what follows it is an
// absolute path.
func Parse(token string) (*Spec, error) {
	if token == "" {
		return nil, fmt.Errorf("image specification cannot be empty")
	}

	spec := &Spec{Image: token}
	if idx := strings.LastIndex(token, ":"); idx >= 0 {
		if mnt := token[idx+1:]; filepath.IsAbs(mnt) {
			spec.Image = token[:idx]
			spec.Mount = mnt
		}
	}

	if spec.Image == "" {
		return nil, fmt.Errorf("invalid image specification %q: missing image", token)
	}

	return spec, nil
}

// Pair is a resolved image file and the directory to mount it on.
type Pair struct {
	Source string
	Mount  string
}

func (p Pair) String() string {
	return p.Source + ":" + p.Mount
}

// expandPath expands ~ to home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}

	return filepath.Clean(abs), nil
}
