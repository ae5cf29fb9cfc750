package reference

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules/*.yaml data/chapters/*.yaml
var embedded embed.FS

// Source is the backing store of the reference corpora.
type Source interface {
	ReadClass(ctx context.Context, class int) (RuleSet, error)
	ChapterIndex(ctx context.Context) ([]int, error)
	ReadChapter(ctx context.Context, n int) (Chapter, error)
}

// FSSource reads rules/classN.yaml and chapters/chapterNN.yaml from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a Source over fsys laid out like the embedded data directory.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Embedded returns the Source bundled with the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // static path
	}
	return NewFSSource(sub)
}

func (s *FSSource) ReadClass(ctx context.Context, class int) (RuleSet, error) {
	var set RuleSet
	if err := s.decode(ctx, fmt.Sprintf("rules/class%d.yaml", class), &set); err != nil {
		return RuleSet{}, err
	}
	if set.Class != class {
		return RuleSet{}, fmt.Errorf("rules/class%d.yaml declares class %d", class, set.Class)
	}
	return set, nil
}

func (s *FSSource) ChapterIndex(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := fs.Glob(s.fsys, "chapters/chapter*.yaml")
	if err != nil {
		return nil, err
	}
	nums := make([]int, 0, len(names))
	for _, name := range names {
		var n int
		if _, err := fmt.Sscanf(path.Base(name), "chapter%d.yaml", &n); err != nil {
			return nil, fmt.Errorf("chapter file %s: %w", name, err)
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums, nil
}

func (s *FSSource) ReadChapter(ctx context.Context, n int) (Chapter, error) {
	var ch Chapter
	if err := s.decode(ctx, fmt.Sprintf("chapters/chapter%02d.yaml", n), &ch); err != nil {
		return Chapter{}, err
	}
	if ch.Number != n {
		return Chapter{}, fmt.Errorf("chapters/chapter%02d.yaml declares chapter %d", n, ch.Number)
	}
	return ch, nil
}

func (s *FSSource) decode(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
