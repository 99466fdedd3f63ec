// Package gallery groups archive images by folder and lays them out in a document.
package gallery

import (
	"strings"

	"foldertoword/internal/model"
)

// Groups is an insertion-ordered mapping from folder to its image entries.
type Groups struct {
	order []string
	byKey map[string]*model.FolderGroup
}

// Group partitions entries by the directory portion of their path. Folders keep the
// order in which they were first seen, and entries keep archive order within a folder.
func Group(entries []model.ImageEntry) *Groups {
	g := &Groups{byKey: make(map[string]*model.FolderGroup)}
	for _, e := range entries {
		g.add(e)
	}
	return g
}

func (g *Groups) add(e model.ImageEntry) {
	key := Dir(e.Path)
	fg, ok := g.byKey[key]
	if !ok {
		fg = &model.FolderGroup{Folder: key}
		g.byKey[key] = fg
		g.order = append(g.order, key)
	}
	fg.Entries = append(fg.Entries, e)
}

// Each calls fn for every group in first-seen order.
func (g *Groups) Each(fn func(model.FolderGroup)) {
	for _, k := range g.order {
		fn(*g.byKey[k])
	}
}

// Dir returns everything before the last "/" of an archive path,
// or "" when the path has no directory part.
func Dir(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Base returns the last element of an archive path.
func Base(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}
