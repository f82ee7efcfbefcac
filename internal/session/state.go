// Package session reconstructs the uenv session of the calling shell from
// its environment variables and the descriptors of the mounted images.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/uenv-dev/uenv/internal/mount"
)

// Environment variables that carry the session between invocations.
const (
	EnvMountList  = "UENV_MOUNT_LIST"
	EnvMountFile  = "UENV_MOUNT_FILE"
	EnvMountPoint = "UENV_MOUNT_POINT"
	EnvModulePath = "UENV_MODULE_PATH"
	EnvView       = "UENV_VIEW"
	EnvCluster    = "CLUSTER_NAME"
)

// Environment is a read-only view of process environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the real process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an Environment backed by a map.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// mountDetector finds the mounted images from one source of truth. found is
// false when the source is absent from the environment.
type mountDetector struct {
	name   string
	detect func(env Environment) (pairs []mount.Pair, found bool)
}

// mountDetectors are tried in order; the first one that finds its variables
// wins, even if later ones would also match.
var mountDetectors = []mountDetector{
	{name: EnvMountList, detect: fromMountList},
	{name: EnvMountFile, detect: fromLegacyPair},
}

func fromMountList(env Environment) ([]mount.Pair, bool) {
	value, ok := env.LookupEnv(EnvMountList)
	if !ok {
		return nil, false
	}
	pairs, bad := mount.ParseList(value)
	for _, entry := range bad {
		log.Warn("ignoring malformed mount entry", "variable", EnvMountList, "entry", entry)
	}
	return pairs, true
}

func fromLegacyPair(env Environment) ([]mount.Pair, bool) {
	file, okFile := env.LookupEnv(EnvMountFile)
	point, okPoint := env.LookupEnv(EnvMountPoint)
	if !okFile || !okPoint {
		if okFile != okPoint {
			log.Debug("incomplete legacy mount variables", EnvMountFile, file, EnvMountPoint, point)
		}
		return nil, false
	}
	file = strings.TrimPrefix(mount.TrimEntry(file), "file://")
	point = mount.TrimEntry(point)
	if file == "" || point == "" {
		return nil, true
	}
	return []mount.Pair{{Source: file, Mount: point}}, true
}

func detectMounts(env Environment) []mount.Pair {
	for _, d := range mountDetectors {
		if pairs, found := d.detect(env); found {
			log.Debug("detected session mounts", "source", d.name, "count", len(pairs))
			return pairs
		}
	}
	return nil
}

// Reconstruct rebuilds the session state from env. It never fails: missing
// or broken descriptors degrade the image to anonymous and are logged.
func Reconstruct(env Environment) *State {
	state := &State{
		ModulePaths: modulePaths(env),
		View:        loadedView(env),
	}
	if cluster, ok := env.LookupEnv(EnvCluster); ok {
		state.ClusterName = strings.TrimSpace(cluster)
	}

	for _, pair := range detectMounts(env) {
		state.Images = append(state.Images, loadImage(pair, state.ModulePaths))
	}

	return state
}

func loadImage(pair mount.Pair, modulePaths []string) *Image {
	img := &Image{Source: pair.Source, Mount: pair.Mount}

	meta, err := LoadMetadata(pair.Mount)
	if err != nil {
		log.Warn("treating image as anonymous", "mount", pair.Mount, "err", err)
		return img
	}
	img.Metadata = meta

	if native := img.NativeMount(); !img.NativelyMounted() {
		log.Warn("image is not mounted at its native mount point; modules and views are disabled",
			"image", img.Name(), "mount", pair.Mount, "native", native)
	}

	if root := img.ModuleRoot(); root != "" {
		img.ModulesLoaded = containsPath(modulePaths, root)
	}

	return img
}

func modulePaths(env Environment) []string {
	value, ok := env.LookupEnv(EnvModulePath)
	if !ok {
		return nil
	}
	paths := []string{}
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func loadedView(env Environment) *LoadedView {
	value, ok := env.LookupEnv(EnvView)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.SplitN(strings.TrimSpace(value), ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		log.Warn("ignoring malformed view variable", "variable", EnvView, "value", value)
		return nil
	}
	return &LoadedView{Mount: parts[0], Image: parts[1], View: parts[2]}
}

func containsPath(paths []string, p string) bool {
	p = filepath.Clean(p)
	for _, candidate := range paths {
		if filepath.Clean(candidate) == p {
			return true
		}
	}
	return false
}

// EncodeView formats a loaded view for UENV_VIEW.
func EncodeView(v LoadedView) string {
	return v.Mount + ":" + v.Image + ":" + v.View
}
