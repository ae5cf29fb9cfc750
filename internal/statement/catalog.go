package statement

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"

	"github.com/cleared-dev/liasse/internal/model"
)

//go:embed schemas/*.yaml schemas/smt/*.yaml
var builtinFS embed.FS

var builtinDirs = map[model.System]string{
	model.SystemNormal:  "schemas",
	model.SystemMinimal: "schemas/smt",
}

// Catalog holds schemas by statement name.
type Catalog struct {
	schemas map[string]*Schema
}

// NewCatalog indexes schemas. A later schema replaces an earlier one with the same name.
func NewCatalog(schemas ...*Schema) *Catalog {
	c := &Catalog{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		c.schemas[s.Name()] = s
	}
	return c
}

// Builtin returns the embedded SYSCOHADA statement schemas of the système normal.
func Builtin() (*Catalog, error) {
	return BuiltinFor(model.SystemNormal)
}

// BuiltinFor returns the embedded schemas of one accounting system.
func BuiltinFor(sys model.System) (*Catalog, error) {
	dir, ok := builtinDirs[sys]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownSystem, sys)
	}
	schemas, err := readFS(builtinFS, dir)
	if err != nil {
		return nil, fmt.Errorf("loading built-in %s schemas: %w", sys, err)
	}
	return NewCatalog(schemas...), nil
}

// LoadDir returns the built-in schemas overridden by every *.yaml file in dir.
func LoadDir(dir string) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}
	return c.Override(dir)
}

// Override returns a copy of c in which every *.yaml file in dir replaces
// or adds the statement it names.
func (c *Catalog) Override(dir string) (*Catalog, error) {
	overrides, err := readFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("loading schemas from %s: %w", dir, err)
	}
	out := NewCatalog()
	maps.Copy(out.schemas, c.schemas)
	for _, s := range overrides {
		out.schemas[s.Name()] = s
	}
	return out, nil
}

func readFS(fsys fs.FS, dir string) ([]*Schema, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, err := fs.Stat(fsys, dir); err != nil {
			return nil, err
		}
	}
	slices.Sort(paths)

	schemas := make([]*Schema, 0, len(paths))
	for _, name := range paths {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// Get returns the schema for name.
func (c *Catalog) Get(name string) (*Schema, error) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStatement, name)
	}
	return s, nil
}

// Names returns the statement names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.schemas))
	for n := range c.schemas {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
