package workspace

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-jot/pkg/config"
)

const testConfigPath = "/opt/jot/config.yml"

type scriptedConfirmer struct {
	answers []bool
	prompts []string
}

func (s *scriptedConfirmer) Confirm(prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return false, nil
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

type fakeRecorder struct {
	touched []string
	deltas  map[string]int
	err     error
}

func (r *fakeRecorder) Touch(workspace, notesFolder string) error {
	r.touched = append(r.touched, workspace)
	return r.err
}

func (r *fakeRecorder) RecordNote(workspace string, delta int) error {
	if r.deltas == nil {
		r.deltas = map[string]int{}
	}
	r.deltas[workspace] += delta
	return r.err
}

type fixture struct {
	fs        afero.Fs
	out       *bytes.Buffer
	confirmer *scriptedConfirmer
	recorder  *fakeRecorder
	mgr       *Manager
}

func newFixture(t *testing.T, configDoc string, answers ...bool) *fixture {
	t.Helper()

	f := &fixture{
		fs:        afero.NewMemMapFs(),
		out:       &bytes.Buffer{},
		confirmer: &scriptedConfirmer{answers: answers},
		recorder:  &fakeRecorder{},
	}
	if configDoc != "" {
		require.NoError(t, afero.WriteFile(f.fs, testConfigPath, []byte(configDoc), 0644))
	}

	mgr, err := New(config.NewStore(f.fs, testConfigPath),
		WithFs(f.fs),
		WithConfirmer(f.confirmer),
		WithOutput(f.out),
		WithRecorder(f.recorder),
	)
	require.NoError(t, err)
	f.mgr = mgr
	return f
}

func (f *fixture) mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(path, 0755))
}

func (f *fixture) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(f.fs, path)
	require.NoError(t, err)
	return ok
}

const configured = "workspace: w1\nnotes_folder: /notes\n"

func TestNewCreatesEmptyConfig(t *testing.T) {
	f := newFixture(t, "")

	assert.True(t, f.exists(t, testConfigPath))
	assert.Equal(t, config.Config{}, f.mgr.Config())
	assert.Equal(t, testConfigPath, f.mgr.ConfigPath())
}

func TestNewFailsOnMalformedConfig(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, testConfigPath, []byte("workspace: [w1\n"), 0644))

	_, err := New(config.NewStore(memFs, testConfigPath), WithFs(memFs))
	assert.ErrorIs(t, err, config.ErrParse)
}

func TestCurrentWorkspaceAndNotesRoot(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantWs   string
		wantRoot string
		wsErr    bool
		rootErr  bool
	}{
		{
			name:     "both set",
			doc:      configured,
			wantWs:   "w1",
			wantRoot: "/notes",
		},
		{
			name:    "empty config",
			doc:     "",
			wsErr:   true,
			rootErr: true,
		},
		{
			name:     "workspace unset",
			doc:      "notes_folder: /notes\n",
			wantRoot: "/notes",
			wsErr:    true,
		},
		{
			name:    "notes folder unset",
			doc:     "workspace: w1\n",
			wantWs:  "w1",
			rootErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.doc)

			ws, err := f.mgr.CurrentWorkspace()
			if tt.wsErr {
				assert.ErrorIs(t, err, ErrNotConfigured)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantWs, ws)
			}

			root, err := f.mgr.NotesRoot()
			if tt.rootErr {
				assert.ErrorIs(t, err, ErrNotConfigured)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRoot, root)
			}
		})
	}
}

func TestWorkspaceExists(t *testing.T) {
	f := newFixture(t, configured)
	f.mkdir(t, "/notes/w1/inbox")
	f.mkdir(t, "/notes/personal")
	f.mkdir(t, "/notes/.hidden")
	require.NoError(t, afero.WriteFile(f.fs, "/notes/loose", nil, 0644))

	tests := []struct {
		name string
		want bool
	}{
		{"w1", true},
		{"personal", true},
		{"inbox", false},
		{"w", false},
		{"loose", false},
		{".hidden", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.mgr.WorkspaceExists(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkspaceExistsMissingRoot(t *testing.T) {
	f := newFixture(t, configured)

	got, err := f.mgr.WorkspaceExists("w1")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestWorkspaceExistsNotConfigured(t *testing.T) {
	f := newFixture(t, "workspace: w1\n")

	_, err := f.mgr.WorkspaceExists("w1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNotebookExistsChecksOnlyLastSegment(t *testing.T) {
	f := newFixture(t, configured)
	f.mkdir(t, "/notes/w1/projects")
	f.mkdir(t, "/notes/w1/work/meetings")

	tests := []struct {
		name     string
		notebook []string
		want     bool
	}{
		{"direct child", []string{"projects"}, true},
		{"missing parent ignored", []string{"work", "projects"}, true},
		{"nested child not visible", []string{"work", "meetings"}, false},
		{"parent alone", []string{"work"}, true},
		{"missing", []string{"archive"}, false},
		{"empty segments", []string{"", ""}, false},
		{"trailing empty segment", []string{"projects", ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.mgr.NotebookExists(tt.notebook)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateNoteConfirmed(t *testing.T) {
	f := newFixture(t, configured, true)

	note, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)
	require.NotNil(t, note)

	assert.Equal(t, "/notes/w1/inbox/todo.md", note.Path)
	assert.Equal(t, "w1", note.Workspace)
	assert.True(t, f.exists(t, "/notes/w1/inbox"))

	data, err := afero.ReadFile(f.fs, "/notes/w1/inbox/todo.md")
	require.NoError(t, err)
	assert.Empty(t, data)

	assert.Equal(t, "w1\n----------------\nAdded 'todo' to your inbox notebook\n", f.out.String())
	require.Len(t, f.confirmer.prompts, 1)
	assert.Equal(t, "This notebook does not currently exist and will be created, do you wish to continue? [y/N]", f.confirmer.prompts[0])
	assert.Equal(t, 1, f.recorder.deltas["w1"])
}

func TestCreateNoteDeclined(t *testing.T) {
	f := newFixture(t, configured, false)

	note, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)
	assert.Nil(t, note)

	assert.False(t, f.exists(t, "/notes/w1/inbox"))
	assert.False(t, f.exists(t, "/notes/w1"))
	assert.Empty(t, f.out.String())
	assert.Len(t, f.confirmer.prompts, 1)
	assert.Empty(t, f.recorder.touched)
}

func TestCreateNoteExistingNotebookSkipsPrompt(t *testing.T) {
	f := newFixture(t, configured)
	f.mkdir(t, "/notes/w1/inbox")

	_, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)

	assert.Empty(t, f.confirmer.prompts)
	assert.True(t, f.exists(t, "/notes/w1/inbox/todo.md"))
}

func TestCreateNoteNestedNotebook(t *testing.T) {
	f := newFixture(t, configured, true)

	note, err := f.mgr.CreateNote("plan", []string{"work", "", "projects"})
	require.NoError(t, err)

	assert.Equal(t, "/notes/w1/work/projects/plan.md", note.Path)
	assert.Equal(t, []string{"work", "projects"}, note.Notebook)
	assert.True(t, f.exists(t, note.Path))
	assert.Contains(t, f.out.String(), "Added 'plan' to your work/projects notebook")
}

func TestCreateNoteTwiceOverwrites(t *testing.T) {
	f := newFixture(t, configured)
	f.mkdir(t, "/notes/w1/inbox")
	require.NoError(t, afero.WriteFile(f.fs, "/notes/w1/inbox/todo.md", []byte("old"), 0644))

	_, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)
	_, err = f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)

	data, err := afero.ReadFile(f.fs, "/notes/w1/inbox/todo.md")
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := afero.ReadDir(f.fs, "/notes/w1/inbox")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Zero(t, f.recorder.deltas["w1"])
}

func TestCreateAndDeleteInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		notebook []string
	}{
		{"nil notebook", "todo", nil},
		{"empty notebook", "todo", []string{}},
		{"only empty segments", "todo", []string{""}},
		{"empty title", "", []string{"inbox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")

			_, err := f.mgr.CreateNote(tt.title, tt.notebook)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			_, err = f.mgr.DeleteNote(tt.title, tt.notebook)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			assert.Empty(t, f.confirmer.prompts)
		})
	}
}

func TestCreateNoteNotConfigured(t *testing.T) {
	f := newFixture(t, "notes_folder: /notes\n", true)

	_, err := f.mgr.CreateNote("todo", []string{"inbox"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, f.confirmer.prompts)
}

func TestCreateNoteConfirmerError(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, testConfigPath, []byte(configured), 0644))
	boom := errors.New("no terminal")

	mgr, err := New(config.NewStore(memFs, testConfigPath),
		WithFs(memFs),
		WithConfirmer(ConfirmFunc(func(string) (bool, error) { return false, boom })),
	)
	require.NoError(t, err)

	_, err = mgr.CreateNote("todo", []string{"inbox"})
	assert.ErrorIs(t, err, boom)
}

func TestCreateThenDelete(t *testing.T) {
	f := newFixture(t, configured, true)

	_, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)
	f.out.Reset()

	note, err := f.mgr.DeleteNote("todo", []string{"inbox"})
	require.NoError(t, err)

	assert.Equal(t, "/notes/w1/inbox/todo.md", note.Path)
	assert.False(t, f.exists(t, "/notes/w1/inbox/todo.md"))
	assert.True(t, f.exists(t, "/notes/w1/inbox"))
	assert.Equal(t, "w1\n----------------\nDeleted 'todo' from your inbox notebook\n", f.out.String())
	assert.Zero(t, f.recorder.deltas["w1"])
}

func TestDeleteMissingNote(t *testing.T) {
	f := newFixture(t, configured)

	_, err := f.mgr.DeleteNote("todo", []string{"inbox"})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, f.out.String())
	assert.Empty(t, f.confirmer.prompts)
}

func TestSwitchWorkspace(t *testing.T) {
	t.Run("existing workspace", func(t *testing.T) {
		f := newFixture(t, configured)
		f.mkdir(t, "/notes/personal")

		require.NoError(t, f.mgr.SwitchWorkspace("personal"))

		assert.Empty(t, f.confirmer.prompts)
		assert.Equal(t, "personal", f.mgr.Config().Workspace)
		assert.Equal(t, []string{"personal"}, f.recorder.touched)

		reloaded, err := config.NewStore(f.fs, testConfigPath).Read()
		require.NoError(t, err)
		assert.Equal(t, &config.Config{Workspace: "personal", NotesFolder: "/notes"}, reloaded)
	})

	t.Run("missing workspace confirmed", func(t *testing.T) {
		f := newFixture(t, configured, true)

		require.NoError(t, f.mgr.SwitchWorkspace("new"))

		require.Len(t, f.confirmer.prompts, 1)
		assert.Contains(t, f.confirmer.prompts[0], "This workspace does not currently exist")
		ws, err := f.mgr.CurrentWorkspace()
		require.NoError(t, err)
		assert.Equal(t, "new", ws)
	})

	t.Run("missing workspace declined", func(t *testing.T) {
		f := newFixture(t, configured, false)

		require.NoError(t, f.mgr.SwitchWorkspace("new"))

		assert.Equal(t, "w1", f.mgr.Config().Workspace)
		data, err := afero.ReadFile(f.fs, testConfigPath)
		require.NoError(t, err)
		assert.Equal(t, configured, string(data))
		assert.Empty(t, f.recorder.touched)
	})

	t.Run("name is trimmed when stored", func(t *testing.T) {
		f := newFixture(t, configured, true)

		require.NoError(t, f.mgr.SwitchWorkspace(" spaced "))
		assert.Equal(t, "spaced", f.mgr.Config().Workspace)
	})

	t.Run("empty name", func(t *testing.T) {
		f := newFixture(t, configured)
		assert.ErrorIs(t, f.mgr.SwitchWorkspace(""), ErrInvalidArgument)
	})

	t.Run("notes folder unset", func(t *testing.T) {
		f := newFixture(t, "", true)
		assert.ErrorIs(t, f.mgr.SwitchWorkspace("w1"), ErrNotConfigured)
		assert.Empty(t, f.confirmer.prompts)
	})
}

func TestRecorderFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t, configured, true)
	f.recorder.err = errors.New("database is locked")

	_, err := f.mgr.CreateNote("todo", []string{"inbox"})
	require.NoError(t, err)
	assert.True(t, f.exists(t, "/notes/w1/inbox/todo.md"))
}

func TestSetNotesFolder(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.mgr.SetNotesFolder("/srv/notes\n"))
	root, err := f.mgr.NotesRoot()
	require.NoError(t, err)
	assert.Equal(t, "/srv/notes", root)

	assert.ErrorIs(t, f.mgr.SetNotesFolder("  "), ErrInvalidArgument)
}

func TestListWorkspaces(t *testing.T) {
	f := newFixture(t, configured)
	f.mkdir(t, "/notes/zeta")
	f.mkdir(t, "/notes/alpha/inbox")
	require.NoError(t, afero.WriteFile(f.fs, "/notes/readme.md", nil, 0644))

	got, err := f.mgr.ListWorkspaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, got)
}
