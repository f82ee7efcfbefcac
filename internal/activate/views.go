package activate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uenv-dev/uenv/internal/session"
)

var (
	ErrViewNotFound  = errors.New("view not found")
	ErrViewAmbiguous = errors.New("ambiguous view")
	ErrViewLoaded    = errors.New("a view is already loaded")
)

// ViewRef is a view together with the image that provides it.
type ViewRef struct {
	Image *session.Image
	View  session.View
}

// Qualified returns the image:view form of the reference.
func (r ViewRef) Qualified() string {
	return r.Image.Name() + ":" + r.View.Name
}

// Loaded returns the UENV_VIEW record for the reference.
func (r ViewRef) Loaded() session.LoadedView {
	return session.LoadedView{Mount: r.Image.Mount, Image: r.Image.Name(), View: r.View.Name}
}

// AmbiguousViewError lists every image that provides the requested view.
type AmbiguousViewError struct {
	View       string
	Candidates []ViewRef
}

func (e *AmbiguousViewError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Qualified()
	}
	return fmt.Sprintf("%s %q is provided by more than one uenv: %s; use the qualified form, e.g. %s",
		ErrViewAmbiguous, e.View, strings.Join(names, ", "), names[0])
}

func (e *AmbiguousViewError) Is(target error) bool {
	return target == ErrViewAmbiguous
}

// Catalog indexes the views that can be activated in a session. Anonymous
// images and images mounted away from their native mount point contribute
// nothing.
type Catalog struct {
	images []*session.Image
	byName map[string][]ViewRef
}

// NewCatalog builds the view index for images.
func NewCatalog(images []*session.Image) *Catalog {
	c := &Catalog{byName: make(map[string][]ViewRef)}
	for _, img := range images {
		if img.Anonymous() || !img.NativelyMounted() || len(img.Views()) == 0 {
			continue
		}
		c.images = append(c.images, img)
		for _, v := range img.Views() {
			c.byName[v.Name] = append(c.byName[v.Name], ViewRef{Image: img, View: v})
		}
	}
	return c
}

// Empty reports whether no image offers an activatable view.
func (c *Catalog) Empty() bool {
	return len(c.images) == 0
}

// Resolve finds a view by plain name or image:view.
func (c *Catalog) Resolve(name string) (ViewRef, error) {
	if imageName, viewName, ok := strings.Cut(name, ":"); ok {
		var matches []ViewRef
		for _, ref := range c.byName[viewName] {
			if ref.Image.Name() == imageName {
				matches = append(matches, ref)
			}
		}
		switch len(matches) {
		case 0:
			return ViewRef{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
		case 1:
			return matches[0], nil
		default:
			return ViewRef{}, &AmbiguousViewError{View: name, Candidates: matches}
		}
	}

	refs := c.byName[name]
	switch len(refs) {
	case 0:
		return ViewRef{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	case 1:
		return refs[0], nil
	default:
		return ViewRef{}, &AmbiguousViewError{View: name, Candidates: refs}
	}
}

// Group is one image's section of the catalog listing.
type Group struct {
	Image   *session.Image
	Entries []Entry
}

// Entry is one line of the catalog listing.
type Entry struct {
	Name        string // qualified only when more than one image offers views
	Description string
}

// Listing returns the catalog grouped by image, in session order.
func (c *Catalog) Listing() []Group {
	qualify := len(c.images) > 1

	groups := make([]Group, 0, len(c.images))
	for _, img := range c.images {
		g := Group{Image: img}
		for _, v := range img.Views() {
			name := v.Name
			if qualify {
				name = img.Name() + ":" + v.Name
			}
			g.Entries = append(g.Entries, Entry{Name: name, Description: v.Description})
		}
		groups = append(groups, g)
	}
	return groups
}

// CheckCanActivate fails when any view is already loaded; views cannot be
// stacked or swapped within a session.
func CheckCanActivate(state *session.State) error {
	if state.View != nil {
		return fmt.Errorf("%w (%s): start a new session to use a different view", ErrViewLoaded, state.View)
	}
	return nil
}
