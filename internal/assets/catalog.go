package assets

import (
	"path/filepath"
	"strings"
)

// TexturePair is the backdrop and floor image shown with a model.
type TexturePair struct {
	Back  string
	Floor string
}

// Catalog is the ordered list of selectable models and their scenery.
type Catalog struct {
	paths    []string
	textures map[string]TexturePair
}

var defaultModels = []string{"robot", "knight", "mutant", "medic", "worker"}

// NewCatalog copies paths and textures. textures is keyed by model base name.
func NewCatalog(paths []string, textures map[string]TexturePair) *Catalog {
	c := &Catalog{
		paths:    append([]string(nil), paths...),
		textures: make(map[string]TexturePair, len(textures)),
	}
	for name, pair := range textures {
		c.textures[name] = pair
	}
	return c
}

// DefaultCatalog returns the bundled model set.
func DefaultCatalog() *Catalog {
	paths := make([]string, 0, len(defaultModels))
	textures := make(map[string]TexturePair, len(defaultModels))
	for _, name := range defaultModels {
		paths = append(paths, "models/"+name+".glb")
		textures[name] = TexturePair{
			Back:  "./textures/back/" + name + "_back.jpg",
			Floor: "./textures/floor/" + name + "_floor.jpg",
		}
	}
	return &Catalog{paths: paths, textures: textures}
}

// Len returns the number of models.
func (c *Catalog) Len() int { return len(c.paths) }

// Path returns the i-th model path.
func (c *Catalog) Path(i int) string { return c.paths[i] }

// Textures looks up the scenery for a model path by its base name.
func (c *Catalog) Textures(path string) (TexturePair, bool) {
	pair, ok := c.textures[BaseName(path)]
	return pair, ok
}

// Index finds a model by path or base name.
func (c *Catalog) Index(name string) (int, bool) {
	for i, p := range c.paths {
		if p == name || BaseName(p) == name {
			return i, true
		}
	}
	return 0, false
}

// BaseName strips directories and the extension: "models/robot.glb" -> "robot".
func BaseName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
