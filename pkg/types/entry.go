package types

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Entry is a single file-system object produced by a directory walk.
// Extension is stored without the leading dot and is empty for folders
// and for names without an extension.
type Entry struct {
	IsFolder  bool   `json:"is_folder"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Extension string `json:"extension"`
}

// NewEntry builds an Entry for the object at path.
func NewEntry(path string, isFolder bool) Entry {
	name := filepath.Base(path)
	e := Entry{
		IsFolder: isFolder,
		Name:     name,
		Path:     path,
	}
	if !isFolder {
		_, e.Extension = SplitName(name)
	}
	return e
}

// Stem returns the name without its extension. Folders return the full name.
func (e Entry) Stem() string {
	if e.IsFolder || e.Extension == "" {
		return e.Name
	}
	return strings.TrimSuffix(e.Name, "."+e.Extension)
}

// ToJSON converts the entry to a JSON string
func (e Entry) ToJSON() string {
	jsonBytes, _ := json.Marshal(e)
	return string(jsonBytes)
}

// SplitName splits a file name into stem and extension (without the dot).
// A leading dot does not start an extension, so ".bashrc" has none
// while ".config.yaml" has "yaml".
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i+1:]
}
