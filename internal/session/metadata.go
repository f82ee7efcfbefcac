package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DescriptorPath is the location of the image descriptor relative to the
// mount point.
const DescriptorPath = "meta/env.json"

// ErrNoDescriptor is returned when an image has no descriptor file.
var ErrNoDescriptor = errors.New("no image descriptor")

type descriptorJSON struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Mount       string       `json:"mount"`
	Modules     *modulesJSON `json:"modules"`
	Views       viewsJSON    `json:"views"`
}

type modulesJSON struct {
	Root string `json:"root"`
}

type viewJSON struct {
	Activate    string `json:"activate"`
	Description string `json:"description"`
	Root        string `json:"root"`
}

// viewsJSON decodes the views object keeping the key order of the file.
type viewsJSON []View

func (v *viewsJSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("views must be an object")
	}

	var views []View
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected view key %v", tok)
		}

		var vj viewJSON
		if err := dec.Decode(&vj); err != nil {
			return fmt.Errorf("view %s: %w", name, err)
		}
		views = append(views, View{
			Name:        name,
			Activate:    vj.Activate,
			Description: vj.Description,
			Root:        vj.Root,
		})
	}

	*v = views
	return nil
}

// ParseMetadata decodes a descriptor.
func ParseMetadata(data []byte) (*Metadata, error) {
	var d descriptorJSON
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	meta := &Metadata{
		Name:        d.Name,
		Description: d.Description,
		Mount:       d.Mount,
		Views:       []View(d.Views),
	}
	if d.Modules != nil {
		meta.ModuleRoot = d.Modules.Root
	}
	return meta, nil
}

// LoadMetadata reads the descriptor of the image mounted at mount.
func LoadMetadata(mount string) (*Metadata, error) {
	path := filepath.Join(mount, DescriptorPath)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoDescriptor, path)
		}
		return nil, fmt.Errorf("failed to read image descriptor: %w", err)
	}

	meta, err := ParseMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse image descriptor %s: %w", path, err)
	}

	return meta, nil
}
