package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattsolo1/grove-jot/pkg/config"
	"github.com/mattsolo1/grove-jot/pkg/models"
)

// Separator is printed between the workspace name and the report line.
const Separator = "----------------"

// Manager resolves the active workspace and creates and deletes notes in it.
// The configuration is read once when the Manager is built and written back
// only when it changes.
type Manager struct {
	store     *config.Store
	cfg       config.Config
	fs        afero.Fs
	confirmer Confirmer
	out       io.Writer
	log       logrus.FieldLogger
	recorder  Recorder
}

// New creates the configuration file if needed, loads it and returns a Manager.
func New(store *config.Store, opts ...Option) (*Manager, error) {
	o := &options{
		fs:        afero.NewOsFs(),
		confirmer: Always(false),
		out:       io.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}

	if err := store.EnsureExists(); err != nil {
		return nil, err
	}
	cfg, err := store.Read()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:     store,
		fs:        o.fs,
		confirmer: o.confirmer,
		out:       o.out,
		log:       o.logger,
		recorder:  o.recorder,
	}
	if cfg != nil {
		m.cfg = *cfg
	}
	return m, nil
}

// Config returns a copy of the loaded configuration.
func (m *Manager) Config() config.Config {
	return m.cfg
}

// ConfigPath returns the location of the configuration file.
func (m *Manager) ConfigPath() string {
	return m.store.Path()
}

// CurrentWorkspace returns the active workspace name.
func (m *Manager) CurrentWorkspace() (string, error) {
	if m.cfg.Workspace == "" {
		return "", fmt.Errorf("%w: please set your workspace", ErrNotConfigured)
	}
	return m.cfg.Workspace, nil
}

// NotesRoot returns the directory holding all workspaces.
func (m *Manager) NotesRoot() (string, error) {
	if m.cfg.NotesFolder == "" {
		return "", fmt.Errorf("%w: please set your notes_folder", ErrNotConfigured)
	}
	return m.cfg.NotesFolder, nil
}

// WorkspaceExists reports whether name is a directory directly under the notes root.
func (m *Manager) WorkspaceExists(name string) (bool, error) {
	root, err := m.NotesRoot()
	if err != nil {
		return false, err
	}

	dirs, err := m.listDirs(root)
	if err != nil {
		return false, err
	}
	return contains(dirs, name), nil
}

// NotebookExists reports whether the last notebook segment names a directory
// directly under the current workspace. Intermediate segments are not checked.
func (m *Manager) NotebookExists(notebook []string) (bool, error) {
	segments := models.CompactNotebook(notebook)
	if len(segments) == 0 {
		return false, nil
	}

	wsDir, err := m.workspaceDir()
	if err != nil {
		return false, err
	}

	dirs, err := m.listDirs(wsDir)
	if err != nil {
		return false, err
	}
	return contains(dirs, segments[len(segments)-1]), nil
}

// ListWorkspaces returns the sorted names of all workspace directories.
func (m *Manager) ListWorkspaces() ([]string, error) {
	root, err := m.NotesRoot()
	if err != nil {
		return nil, err
	}

	dirs, err := m.listDirs(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// SwitchWorkspace makes name the active workspace. If no such workspace
// exists the user is asked first; declining leaves everything unchanged.
func (m *Manager) SwitchWorkspace(name string) error {
	if name == "" {
		return invalidArgument("no workspace specified")
	}

	exists, err := m.WorkspaceExists(name)
	if err != nil {
		return err
	}
	if !exists {
		ok, err := m.confirm("workspace")
		if err != nil {
			return err
		}
		if !ok {
			m.log.WithField("workspace", name).Debug("workspace switch declined")
			return nil
		}
	}

	if err := m.update(config.KeyWorkspace, name); err != nil {
		return err
	}

	m.log.WithField("workspace", m.cfg.Workspace).Debug("switched workspace")
	if m.recorder != nil {
		if err := m.recorder.Touch(m.cfg.Workspace, m.cfg.NotesFolder); err != nil {
			m.log.WithError(err).Warn("failed to record workspace switch")
		}
	}
	return nil
}

// SetNotesFolder stores the root directory that holds the workspaces.
func (m *Manager) SetNotesFolder(path string) error {
	if strings.TrimSpace(path) == "" {
		return invalidArgument("no notes folder specified")
	}
	if err := m.update(config.KeyNotesFolder, path); err != nil {
		return err
	}
	m.log.WithField("notes_folder", m.cfg.NotesFolder).Debug("updated notes folder")
	return nil
}

// CreateNote creates an empty note file named after title in the notebook,
// creating the notebook directories as needed. An existing note with the same
// title is truncated. If the notebook does not exist the user is asked
// first; declining returns a nil note and no error.
func (m *Manager) CreateNote(title string, notebook []string) (*models.Note, error) {
	segments, err := validateNote(title, notebook)
	if err != nil {
		return nil, err
	}

	note, err := m.locate(title, segments)
	if err != nil {
		return nil, err
	}
	log := m.log.WithFields(logrus.Fields{
		"workspace": note.Workspace,
		"notebook":  note.NotebookName(),
		"path":      note.Path,
	})

	exists, err := m.NotebookExists(segments)
	if err != nil {
		return nil, err
	}
	if !exists {
		ok, err := m.confirm("notebook")
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("notebook creation declined")
			return nil, nil
		}
	}

	if err := m.fs.MkdirAll(note.Dir(), 0755); err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}

	existed, err := afero.Exists(m.fs, note.Path)
	if err != nil {
		return nil, fmt.Errorf("stat note: %w", err)
	}

	f, err := m.fs.OpenFile(note.Path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close note: %w", err)
	}
	log.WithField("overwritten", existed).Debug("created note")

	if !existed {
		m.recordNote(note.Workspace, 1)
	}
	m.report(note.Workspace, fmt.Sprintf("Added '%s' to your %s notebook", title, note.NotebookName()))
	return note, nil
}

// DeleteNote removes the note file. There is no confirmation; a missing
// notebook or note surfaces as the underlying not-found error.
func (m *Manager) DeleteNote(title string, notebook []string) (*models.Note, error) {
	segments, err := validateNote(title, notebook)
	if err != nil {
		return nil, err
	}

	note, err := m.locate(title, segments)
	if err != nil {
		return nil, err
	}

	if err := m.fs.Remove(note.Path); err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"workspace": note.Workspace,
		"path":      note.Path,
	}).Debug("deleted note")

	m.recordNote(note.Workspace, -1)
	m.report(note.Workspace, fmt.Sprintf("Deleted '%s' from your %s notebook", title, note.NotebookName()))
	return note, nil
}

func validateNote(title string, notebook []string) ([]string, error) {
	segments := models.CompactNotebook(notebook)
	if len(segments) == 0 {
		return nil, invalidArgument("no notebook specified")
	}
	if title == "" {
		return nil, invalidArgument("no note title specified")
	}
	return segments, nil
}

// locate builds the note for title in the notebook of the current workspace.
func (m *Manager) locate(title string, segments []string) (*models.Note, error) {
	wsDir, err := m.workspaceDir()
	if err != nil {
		return nil, err
	}

	parts := append([]string{wsDir}, segments...)
	return &models.Note{
		Title:     title,
		Notebook:  segments,
		Workspace: m.cfg.Workspace,
		Path:      filepath.Join(filepath.Join(parts...), models.FileName(title)),
	}, nil
}

func (m *Manager) workspaceDir() (string, error) {
	root, err := m.NotesRoot()
	if err != nil {
		return "", err
	}
	ws, err := m.CurrentWorkspace()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ws), nil
}

// listDirs returns the names of the visible directories directly under dir.
// A missing dir has no children.
func (m *Manager) listDirs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(m.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		isDir := entry.IsDir()
		if entry.Mode()&os.ModeSymlink != 0 {
			if info, err := m.fs.Stat(filepath.Join(dir, entry.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (m *Manager) update(key, value string) error {
	cfg, err := m.store.Write(key, value)
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	m.cfg = *cfg
	return nil
}

func (m *Manager) confirm(resource string) (bool, error) {
	prompt := fmt.Sprintf("This %s does not currently exist and will be created, do you wish to continue? [y/N]", resource)
	ok, err := m.confirmer.Confirm(prompt)
	if err != nil {
		return false, fmt.Errorf("confirm %s creation: %w", resource, err)
	}
	return ok, nil
}

func (m *Manager) recordNote(workspace string, delta int) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Touch(workspace, m.cfg.NotesFolder); err != nil {
		m.log.WithError(err).Warn("failed to record workspace use")
		return
	}
	if err := m.recorder.RecordNote(workspace, delta); err != nil {
		m.log.WithError(err).Warn("failed to record note count")
	}
}

func (m *Manager) report(workspace, message string) {
	fmt.Fprintln(m.out, workspace)
	fmt.Fprintln(m.out, Separator)
	fmt.Fprintln(m.out, message)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
