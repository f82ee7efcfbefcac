package mount

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateMountPoint checks that path is absolute and an existing directory.
func ValidateMountPoint(path string) error {
	if path == "" {
		return fmt.Errorf("mount point cannot be empty")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("invalid mount point %s: must be an absolute path", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("invalid mount point %s: does not exist", path)
		}
		return fmt.Errorf("invalid mount point %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid mount point %s: not a directory", path)
	}

	return nil
}

// isImageFile reports whether path names an existing regular file.
func isImageFile(path string) (string, bool) {
	abs, err := expandPath(path)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
