// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/docsvc"
	"github.com/jeranaias/studydesk/internal/logging"
	"github.com/jeranaias/studydesk/internal/ui"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Env is the state shared by the commands of one invocation. The root
// command fills it in before any subcommand runs.
type Env struct {
	// Global flags
	ConfigPath string
	BaseURL    string
	Verbose    bool

	Config *config.Config
	Logger *zap.Logger
	Client *docsvc.Client

	Out    io.Writer
	ErrOut io.Writer

	// tty reports whether Out is an interactive terminal.
	tty bool
}

// NewEnv creates an environment writing to stdout and stderr.
func NewEnv() *Env {
	return &Env{Out: os.Stdout, ErrOut: os.Stderr}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the studydesk command tree around env.
func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "studydesk [documento]",
		Short: "Asistente de estudio para documentos académicos",
		Long: `studydesk sube un documento académico a un servicio de análisis y
permite generar un resumen, preguntas de práctica y un plan de estudio,
calificar respuestas y conversar sobre el contenido.

Sin subcomando abre la interfaz de terminal. Si se indica un documento, se
sube al iniciar.

Examples:
  studydesk
  studydesk apuntes.pdf
  studydesk summary apuntes.pdf
  studydesk questions --doc abc123 --count 5
  studydesk chat --doc abc123`,
		Version:       fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(cmd.Root() != cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.Logger != nil {
				_ = env.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var document string
			if len(args) == 1 {
				document = args[0]
			}
			return env.runTUI(cmd.Context(), document)
		},
	}
	root.SetOut(env.Out)
	root.SetErr(env.ErrOut)

	flags := root.PersistentFlags()
	flags.StringVar(&env.ConfigPath, "config", "", "ruta del archivo de configuración")
	flags.StringVar(&env.BaseURL, "base-url", "", "URL del servicio de documentos")
	flags.BoolVarP(&env.Verbose, "verbose", "v", false, "mostrar el registro de depuración en stderr")

	root.AddCommand(
		newUploadCommand(env),
		newSummaryCommand(env),
		newPlanCommand(env),
		newQuestionsCommand(env),
		newGradeCommand(env),
		newAskCommand(env),
		newChatCommand(env),
		newExportCommand(env),
		newConfigCommand(env),
		newVersionCommand(env),
	)
	return root
}

// Execute runs the command line and prints any error. The returned error
// is only for the exit status.
func Execute(ctx context.Context, args []string) error {
	env := NewEnv()
	root := NewRootCommand(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(env.ErrOut, FormatError(err))
	}
	return err
}

// setup loads the configuration and builds the logger and the service
// client. console adds log output on stderr, which the TUI cannot have.
func (e *Env) setup(console bool) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if e.BaseURL != "" {
		cfg.Service.BaseURL = e.BaseURL
	}
	e.Config = cfg

	consoleLevel := zapcore.WarnLevel
	if e.Verbose {
		consoleLevel = zapcore.DebugLevel
		cfg.Logging.Level = "debug"
	}
	log, err := logging.New(cfg.Logging, logging.Options{Console: console, ConsoleLevel: consoleLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	e.Logger = log
	e.Client = docsvc.FromConfig(cfg.Service, log)

	if f, ok := e.Out.(*os.File); ok && f == os.Stdout {
		e.tty = IsStdoutTTY()
	}
	if console {
		lipgloss.SetColorProfile(GetColorProfile())
	}
	return nil
}

func (e *Env) loadConfig() (*config.Config, error) {
	if e.ConfigPath != "" {
		if _, err := os.Stat(e.ConfigPath); errors.Is(err, fs.ErrNotExist) {
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return config.LoadFromPath(e.ConfigPath)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintln(e.ErrOut, WarningStyle.Render("Aviso:")+" "+err.Error()+" (usando valores por defecto)")
	}
	return cfg, nil
}

// saveConfig writes cfg back to the file it was loaded from.
func (e *Env) saveConfig(cfg *config.Config) (string, error) {
	if e.ConfigPath != "" {
		return e.ConfigPath, config.SaveTOML(cfg, e.ConfigPath)
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	return path, config.Save(cfg)
}

func (e *Env) runTUI(ctx context.Context, document string) error {
	e.Logger.Info("tui started", zap.String("base_url", e.Client.BaseURL()))
	return ui.Run(ctx, ui.Options{
		Config:   e.Config,
		Service:  e.Client,
		Logger:   e.Logger,
		Document: document,
	})
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostrar la versión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(env.Out, "studydesk %s\n", Version)
			fmt.Fprintf(env.Out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(env.Out, "  built:  %s\n", BuildDate)
			return nil
		},
	}
}
