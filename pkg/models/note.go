package models

import (
	"path/filepath"
	"strings"
)

// NoteExtension is appended to a note title to form its file name.
const NoteExtension = ".md"

// Note represents a note file inside a notebook
type Note struct {
	Title     string   `json:"title"`
	Notebook  []string `json:"notebook"`
	Workspace string   `json:"workspace"`
	Path      string   `json:"path"`
}

// FileName returns the file name for a note titled title.
func FileName(title string) string {
	return title + NoteExtension
}

// NotebookName returns the notebook segments joined with "/".
func (n *Note) NotebookName() string {
	return JoinNotebook(n.Notebook)
}

// Dir returns the notebook directory holding the note.
func (n *Note) Dir() string {
	return filepath.Dir(n.Path)
}

// JoinNotebook renders notebook segments the way they are shown to users.
func JoinNotebook(segments []string) string {
	return strings.Join(segments, "/")
}

// CompactNotebook drops empty segments.
func CompactNotebook(segments []string) []string {
	var out []string
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
