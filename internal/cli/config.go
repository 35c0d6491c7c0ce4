// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/studydesk/internal/config"
)

func newConfigCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Ver y modificar la configuración",
		Long: `Muestra y modifica la configuración de studydesk.

Examples:
  studydesk config show
  studydesk config path
  studydesk config init
  studydesk config get service.base_url
  studydesk config set workspace.question_count 5`,
	}
	cmd.AddCommand(
		newConfigShowCommand(env),
		newConfigPathCommand(env),
		newConfigInitCommand(env),
		newConfigGetCommand(env),
		newConfigSetCommand(env),
	)
	return cmd
}

func newConfigShowCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Mostrar la configuración efectiva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(env.Out, env.Config.String())
			return nil
		},
	}
}

func newConfigPathCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Mostrar la ruta del archivo de configuración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := env.ConfigPath
			if path == "" {
				var err error
				if path, err = config.ConfigPathTOML(); err != nil {
					return err
				}
			}
			fmt.Fprintln(env.Out, path)
			return nil
		},
	}
}

func newConfigInitCommand(env *Env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Crear un archivo de configuración con los valores por defecto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := env.ConfigPath
			if path == "" {
				var err error
				if path, err = config.ConfigPathTOML(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &UsageError{Reason: "ya existe " + path, Example: "studydesk config init --force"}
			}
			if env.ConfigPath == "" {
				if err := config.EnsureConfigDir(); err != nil {
					return err
				}
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return wrapCommand("config init", err)
			}
			fmt.Fprintln(env.Out, SuccessStyle.Render("Configuración creada: ")+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sobrescribir un archivo existente")
	return cmd
}

func newConfigGetCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:       "get <clave>",
		Short:     "Mostrar un valor de la configuración",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := env.Config.Get(args[0])
			if err != nil {
				return wrapCommand("config get", err)
			}
			fmt.Fprintln(env.Out, v)
			return nil
		},
	}
}

func newConfigSetCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:       "set <clave> <valor>",
		Short:     "Cambiar un valor de la configuración",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reload so the --base-url flag is not written back.
			cfg, err := env.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return wrapCommand("config set", err)
			}
			if err := cfg.Validate(); err != nil {
				return wrapCommand("config set", err)
			}
			path, err := env.saveConfig(cfg)
			if err != nil {
				return wrapCommand("config set", err)
			}
			fmt.Fprintf(env.Out, "%s %s = %s\n", SuccessStyle.Render("Guardado en "+path+":"), args[0], args[1])
			return nil
		},
	}
}
