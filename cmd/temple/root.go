package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/temple/internal/paths"
	"github.com/mesh-intelligence/temple/internal/telemetry"
	"github.com/mesh-intelligence/temple/pkg/temple"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	json      bool
	logLevel  string
}

// app is the state shared by one invocation's commands.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	log       zerolog.Logger
	logCloser io.Closer
	metrics   *telemetry.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "temple",
		Short: "Administer the temple site's record store",
		Long: `temple manages the records behind the temple website: events, services,
staff, board members, donors, daily poojas, bajanas, gallery images,
subscribers, registrations, visitors, and analytics.`,
		Version:           temple.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser == nil {
				return nil
			}
			return a.logCloser.Close()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.temple)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.temple-db)")
	pf.BoolVar(&a.flags.json, "json", false, `output as a {"data": ...} JSON envelope`)
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (overrides log_level in config.yaml)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newResetCmd(a),
		newStatsCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newWatchCmd(a),
		newHashPasswordCmd(),
	)
	return root
}

// setup resolves the config directory, loads config.yaml, and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	level := a.flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	logger, closer, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  level,
		Format: v.GetString(cfgKeyLogFormat),
		Output: "stderr",
	})
	if err != nil {
		return userError{err}
	}

	a.configDir = configDir
	a.v = v
	a.log = telemetry.Component(logger, "cli")
	a.logCloser = closer
	return nil
}
