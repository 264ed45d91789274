package workspace

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidArgument is returned when a title or notebook is missing.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotConfigured is returned when workspace or notes_folder is unset.
	ErrNotConfigured = errors.New("not configured")
)

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// Confirmer decides whether a missing workspace or notebook may be created.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Always returns a Confirmer that answers every prompt with answer.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(string) (bool, error) { return answer, nil })
}

// Recorder is told about workspace activity. Failures are logged, not returned.
type Recorder interface {
	Touch(workspace, notesFolder string) error
	RecordNote(workspace string, delta int) error
}

type options struct {
	fs        afero.Fs
	confirmer Confirmer
	out       io.Writer
	logger    logrus.FieldLogger
	recorder  Recorder
}

// Option configures a Manager.
type Option func(*options)

// WithFs sets the filesystem notes live on. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithConfirmer sets the source of yes/no answers. Defaults to declining.
func WithConfirmer(c Confirmer) Option {
	return func(o *options) {
		o.confirmer = c
	}
}

// WithOutput sets where reports are printed. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLogger sets the logger for warnings. Defaults to discarding them.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder sets where workspace usage is recorded. Defaults to nowhere.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}
