package divide

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutputExists is returned by Layout.Init when the root is already present.
var ErrOutputExists = errors.New("output exists (use -force)")

// Layout is the directory tree of one run.
type Layout struct {
	Root     string
	GenBank  string
	ByName   string
	Raw      string
	ByGene   string
	Expanded string
	Unique   string
	Temp     string
}

func NewLayout(root string) Layout {
	return Layout{
		Root:     root,
		GenBank:  filepath.Join(root, "GenBank"),
		ByName:   filepath.Join(root, "by-name"),
		Raw:      filepath.Join(root, "raw"),
		ByGene:   filepath.Join(root, "by-gene"),
		Expanded: filepath.Join(root, "expanded"),
		Unique:   filepath.Join(root, "unique"),
		Temp:     filepath.Join(root, "temp"),
	}
}

// generated lists the directories whose content is rebuilt by every run.
// GenBank is excluded since it may hold the inputs.
func (l Layout) generated() []string {
	return []string{l.ByName, l.Raw, l.ByGene, l.Expanded, l.Unique, l.Temp}
}

// Init creates the tree. An existing root is refused unless force is set, in
// which case the generated directories are emptied first.
func (l Layout) Init(force bool) error {
	if _, err := os.Stat(l.Root); err == nil {
		if !force {
			return fmt.Errorf("%s: %w", l.Root, ErrOutputExists)
		}
		for _, dir := range l.generated() {
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("clean %s: %w", dir, err)
			}
		}
	}
	for _, dir := range append([]string{l.GenBank}, l.generated()...) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}
