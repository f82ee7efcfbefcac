// Package activate decides which module trees and views of the mounted
// images can be activated in the current session.
package activate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uenv-dev/uenv/internal/session"
)

var (
	ErrNoModules    = errors.New("no loaded uenv provides modules")
	ErrUnknownImage = errors.New("no loaded uenv with modules matches")
)

// ModuleCandidates returns the images whose module trees can be used: they
// provide modules and are mounted at their native mount point.
func ModuleCandidates(images []*session.Image) []*session.Image {
	var out []*session.Image
	for _, img := range images {
		if img.HasModules() && img.NativelyMounted() {
			out = append(out, img)
		}
	}
	return out
}

// SelectModules picks the images whose modules should be used. With no
// names every candidate is used. Otherwise each name must match exactly one
// candidate by image name or mount point, or nothing is selected.
func SelectModules(images []*session.Image, names []string) ([]*session.Image, error) {
	candidates := ModuleCandidates(images)
	if len(candidates) == 0 {
		return nil, ErrNoModules
	}
	if len(names) == 0 {
		return candidates, nil
	}

	var selected []*session.Image
	seen := make(map[*session.Image]bool)
	for _, name := range names {
		var matches []*session.Image
		for _, img := range candidates {
			if img.Name() == name || img.Mount == name {
				matches = append(matches, img)
			}
		}

		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownImage, name, describeCandidates(candidates))
		case 1:
		default:
			return nil, fmt.Errorf("%w: %q matches %d images, use the mount point instead", ErrUnknownImage, name, len(matches))
		}

		if img := matches[0]; !seen[img] {
			seen[img] = true
			selected = append(selected, img)
		}
	}

	return selected, nil
}

// ModulePaths merges the module roots of images into the already loaded
// paths, keeping order and dropping duplicates.
func ModulePaths(loaded []string, images []*session.Image) []string {
	out := make([]string, 0, len(loaded)+len(images))
	seen := make(map[string]bool)
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range loaded {
		add(p)
	}
	for _, img := range images {
		add(img.ModuleRoot())
	}
	return out
}

func describeCandidates(images []*session.Image) string {
	names := make([]string, len(images))
	for i, img := range images {
		if img.Name() != "" {
			names[i] = img.Name()
		} else {
			names[i] = img.Mount
		}
	}
	return strings.Join(names, ", ")
}
