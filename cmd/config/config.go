package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	jotconfig "github.com/mattsolo1/grove-jot/pkg/config"
	"github.com/mattsolo1/grove-jot/pkg/history"
	"github.com/mattsolo1/grove-jot/pkg/prompt"
	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

// Confirmation styles.
const (
	ConfirmLine   = "line"
	ConfirmDialog = "dialog"
)

// Settings are the CLI-level options. They come from flags or JOT_* environment variables.
type Settings struct {
	ConfigFile string
	DataDir    string
	LogLevel   string
	Confirm    string
	History    bool
}

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "config file (default is config.yml next to the jot binary)")
	cmd.PersistentFlags().String("data-dir", "", "directory for the workspace history database (default is $HOME/.local/share/jot)")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("confirm", ConfirmLine, "confirmation style: line or dialog")
	cmd.PersistentFlags().Bool("no-history", false, "don't record workspace usage")
}

// Load resolves settings from flags, environment and defaults.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("JOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}
	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "jot"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("confirm", ConfirmLine)
	v.SetDefault("history", true)

	bindings := map[string]string{
		"config":    "config",
		"data_dir":  "data-dir",
		"log_level": "log-level",
		"confirm":   "confirm",
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	if f := flags.Lookup("no-history"); f != nil && f.Changed && f.Value.String() == "true" {
		v.Set("history", false)
	}

	dataDir, err := homedir.Expand(v.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("expand data dir: %w", err)
	}
	s := &Settings{
		DataDir:  dataDir,
		LogLevel: v.GetString("log_level"),
		Confirm:  v.GetString("confirm"),
		History:  v.GetBool("history"),
	}

	configFile := v.GetString("config")
	if configFile == "" {
		if configFile, err = jotconfig.DefaultPath(); err != nil {
			return nil, err
		}
	}
	if s.ConfigFile, err = homedir.Expand(configFile); err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}

	switch s.Confirm {
	case ConfirmLine, ConfirmDialog:
	default:
		return nil, fmt.Errorf("unknown confirm style %q (want %s or %s)", s.Confirm, ConfirmLine, ConfirmDialog)
	}
	return s, nil
}

// NewLogger builds the stderr logger used by every command.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	return logger, nil
}

// InitManager builds the workspace manager. The returned close func releases
// the history database and is never nil.
func InitManager(s *Settings, in io.Reader, out, errOut io.Writer) (*workspace.Manager, func() error, error) {
	logger, err := NewLogger(s.LogLevel, errOut)
	if err != nil {
		return nil, nil, err
	}

	var confirmer workspace.Confirmer = prompt.NewPrompter(in, out)
	if s.Confirm == ConfirmDialog {
		confirmer = prompt.NewTeaConfirmer(in, out)
	}

	fs := afero.NewOsFs()
	opts := []workspace.Option{
		workspace.WithFs(fs),
		workspace.WithConfirmer(confirmer),
		workspace.WithOutput(out),
		workspace.WithLogger(logger),
	}

	closeFn := func() error { return nil }
	if s.History {
		h, err := history.Open(s.DataDir)
		if err != nil {
			// Non-fatal, notes work without history.
			logger.WithError(err).Warn("workspace history disabled")
		} else {
			opts = append(opts, workspace.WithRecorder(h))
			closeFn = h.Close
		}
	}

	mgr, err := workspace.New(jotconfig.NewStore(fs, s.ConfigFile), opts...)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return mgr, closeFn, nil
}

// OpenHistory opens the history database named by the settings.
func OpenHistory(s *Settings) (*history.History, error) {
	return history.Open(s.DataDir)
}
