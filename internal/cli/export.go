// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/studydesk/internal/model"
)

func newExportCommand(env *Env) *cobra.Command {
	var (
		target  docTarget
		actions []string
		format  string
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "export [archivo]",
		Short: "Generar contenido y exportarlo a un archivo",
		Long: `Genera el contenido indicado con --action y lo exporta en Markdown, HTML
o JSON. Con varias acciones se escribe un archivo por acción.

Examples:
  studydesk export apuntes.pdf
  studydesk export --doc abc123 --action summary,plan --format html --out ./estudio`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = env.Config.Export.Format
			}
			if outDir == "" {
				outDir = env.Config.Export.Dir
			}

			parsed := make([]model.Action, 0, len(actions))
			for _, name := range actions {
				a, err := model.ParseAction(strings.TrimSpace(name))
				if err != nil {
					return wrapCommand("export", &UsageError{Reason: err.Error(), Example: "--action summary,questions,plan"})
				}
				parsed = append(parsed, a)
			}

			docID, name, err := target.resolve(cmd.Context(), env, args)
			if err != nil {
				return wrapCommand("export", err)
			}
			ws := env.openWorkspace(docID, name, 0)
			defer ws.Close()

			for _, a := range parsed {
				if _, err := ws.Orchestrator().Run(cmd.Context(), a); err != nil {
					return wrapCommand("export", err)
				}
				path, err := env.exportWorkspace(ws, format, outDir)
				if err != nil {
					return wrapCommand("export", err)
				}
				fmt.Fprintln(env.Out, path)
			}
			return nil
		},
	}
	target.register(cmd)
	cmd.Flags().StringSliceVarP(&actions, "action", "a", []string{"summary"}, "acciones a generar: summary, questions, plan")
	cmd.Flags().StringVarP(&format, "format", "f", "", "formato: markdown, html, json (por defecto el de la configuración)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directorio de salida")
	return cmd
}
