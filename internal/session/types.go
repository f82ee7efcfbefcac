package session

import (
	"path/filepath"
)

// View is a named activation script provided by an image.
type View struct {
	Name        string
	Activate    string // script to source
	Description string
	Root        string // prefix the view was installed to
}

// Metadata is the parsed image descriptor. Every field is optional; empty
// strings and nil slices mean "not provided".
type Metadata struct {
	Name        string
	Description string
	Mount       string // mount point declared by the image
	ModuleRoot  string
	Views       []View // in descriptor order
}

// NativeMount returns the mount point the image was built for, in priority
// order: the declared mount, two levels above the first view root, one level
// above the module root, or actual when none of those is known.
func (m *Metadata) NativeMount(actual string) string {
	if m == nil {
		return actual
	}
	if m.Mount != "" {
		return filepath.Clean(m.Mount)
	}
	if len(m.Views) > 0 && m.Views[0].Root != "" {
		return filepath.Dir(filepath.Dir(filepath.Clean(m.Views[0].Root)))
	}
	if m.ModuleRoot != "" {
		return filepath.Dir(filepath.Clean(m.ModuleRoot))
	}
	return actual
}

// View returns the named view.
func (m *Metadata) View(name string) (View, bool) {
	if m == nil {
		return View{}, false
	}
	for _, v := range m.Views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Image is a squashfs image mounted in the current session.
type Image struct {
	Source        string
	Mount         string
	Metadata      *Metadata // nil for anonymous images
	ModulesLoaded bool
}

// Anonymous reports whether the image has no readable descriptor.
func (i *Image) Anonymous() bool {
	return i.Metadata == nil
}

// Name is the image name from its descriptor, empty for anonymous images.
func (i *Image) Name() string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata.Name
}

// Description is the image description, empty when not provided.
func (i *Image) Description() string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata.Description
}

// NativeMount is the mount point the image was built for.
func (i *Image) NativeMount() string {
	return i.Metadata.NativeMount(i.Mount)
}

// NativelyMounted reports whether the image is mounted where it was built
// for. Modules and views are only usable when it is.
func (i *Image) NativelyMounted() bool {
	return filepath.Clean(i.Mount) == filepath.Clean(i.NativeMount())
}

// ModuleRoot is the module tree of the image, empty if it has none.
func (i *Image) ModuleRoot() string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata.ModuleRoot
}

// HasModules reports whether the image provides a module tree.
func (i *Image) HasModules() bool {
	return i.ModuleRoot() != ""
}

// Views returns the views of the image in descriptor order.
func (i *Image) Views() []View {
	if i.Metadata == nil {
		return nil
	}
	return i.Metadata.Views
}

// LoadedView identifies the view activated in this session.
type LoadedView struct {
	Mount string
	Image string
	View  string
}

func (v LoadedView) String() string {
	return v.Image + ":" + v.View
}

// State is the session as reconstructed from the environment.
type State struct {
	Images      []*Image
	ModulePaths []string    // nil when UENV_MODULE_PATH is not set
	View        *LoadedView // nil when no view is loaded
	ClusterName string      // empty when CLUSTER_NAME is not set
}

// Active reports whether any image is mounted.
func (s *State) Active() bool {
	return len(s.Images) > 0
}
