// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/export"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of interactive input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close()
}

// linerReader provides line editing and persistent history.
type linerReader struct {
	line        *liner.State
	historyFile string
}

// NewLineReader creates a reader whose history is kept in the config
// directory under name.
func NewLineReader(name string) LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &linerReader{line: line, historyFile: filepath.Join(dir, name)}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

// ReadLine reads a line with history navigation.
func (r *linerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history and restores the terminal.
func (r *linerReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

const chatHelp = `Escriba una pregunta sobre el documento y pulse Enter.

Comandos:
  /summary      generar el resumen
  /plan         generar el plan de estudio
  /questions    generar preguntas y responderlas
  /history      mostrar la conversación
  /export [fmt] exportar la sesión (markdown, html, json)
  /help         mostrar esta ayuda
  /quit         salir (también Ctrl+D)`

func newChatCommand(env *Env) *cobra.Command {
	var target docTarget
	cmd := &cobra.Command{
		Use:   "chat [archivo]",
		Short: "Conversar sobre un documento",
		Long: `Abre una conversación interactiva sobre un documento.

` + chatHelp + `

Examples:
  studydesk chat apuntes.pdf
  studydesk chat --doc abc123`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, name, err := target.resolve(cmd.Context(), env, args)
			if err != nil {
				return wrapCommand("chat", err)
			}
			ws := env.openWorkspace(docID, name, 0)
			defer ws.Close()

			in := NewLineReader("chat_history")
			defer in.Close()
			return env.runChat(cmd.Context(), ws, in)
		},
	}
	target.register(cmd)
	return cmd
}

// runChat is the chat loop. Ctrl+C cancels the request in flight; at the
// prompt it ends the session like Ctrl+D.
func (e *Env) runChat(ctx context.Context, ws *workspace.Workspace, in LineReader) error {
	fmt.Fprintln(e.Out, TitleStyle.Render("Asistente Virtual")+" "+DimStyle.Render(ws.Session().DocumentName()))
	fmt.Fprintln(e.Out, DimStyle.Render("Escriba /help para ver los comandos."))
	for _, s := range workspace.Suggestions {
		fmt.Fprintln(e.Out, DimStyle.Render("  · "+s))
	}
	fmt.Fprintln(e.Out)

	for {
		input, err := in.ReadLine(PromptStyle.Render("studydesk> "))
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				return err
			}
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := e.handleSlashCommand(ctx, ws, in, input)
			if err != nil {
				fmt.Fprintln(e.ErrOut, FormatError(err))
			}
			if quit {
				break
			}
			continue
		}

		if err := e.ask(ctx, ws, input); err != nil {
			fmt.Fprintln(e.ErrOut, FormatError(err))
		}
	}

	fmt.Fprintln(e.Out, DimStyle.Render(fmt.Sprintf("Sesión terminada: %d mensajes en %s",
		len(ws.Conversation().Messages()), formatDuration(ws.Session().Duration()))))
	return nil
}

// ask sends one question. The request is cancelled on interrupt.
func (e *Env) ask(ctx context.Context, ws *workspace.Workspace, question string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(e.ErrOut, DimStyle.Render("Asistente Virtual está escribiendo..."))
	reply, err := ws.Conversation().Ask(ctx, question)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(e.ErrOut, WarningStyle.Render("[Cancelado]"))
		return nil
	}
	if reply.Content != "" {
		fmt.Fprint(e.Out, e.renderMarkdown(reply.Content))
	}
	return err
}

func (e *Env) handleSlashCommand(ctx context.Context, ws *workspace.Workspace, in LineReader, input string) (bool, error) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Fprintln(e.Out, chatHelp)

	case "/summary":
		return false, e.chatGenerate(ctx, ws, model.ActionSummary)

	case "/plan":
		return false, e.chatGenerate(ctx, ws, model.ActionStudyPlan)

	case "/questions":
		if err := e.chatGenerate(ctx, ws, model.ActionQuestions); err != nil {
			return false, err
		}
		return false, e.runQuiz(ctx, ws, in)

	case "/history":
		for _, msg := range ws.Conversation().Messages() {
			fmt.Fprintf(e.Out, "%s %s\n%s\n\n",
				SectionStyle.Render(msg.Role.DisplayName()),
				DimStyle.Render(msg.Timestamp.Format("15:04")),
				msg.Content)
		}

	case "/export":
		format := e.Config.Export.Format
		if len(fields) > 1 {
			format = fields[1]
		}
		path, err := e.exportWorkspace(ws, format, e.Config.Export.Dir)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(e.Out, SuccessStyle.Render("Sesión exportada: ")+path)

	default:
		return false, &UsageError{Reason: "comando desconocido: " + fields[0], Example: "/help"}
	}
	return false, nil
}

func (e *Env) chatGenerate(ctx context.Context, ws *workspace.Workspace, action model.Action) error {
	fmt.Fprintln(e.ErrOut, DimStyle.Render("Procesando documento..."))
	if _, err := ws.Orchestrator().Run(ctx, action); err != nil {
		return err
	}
	if text, ok := ws.Session().Content().Text(); ok {
		e.printGenerated(action, text)
	}
	return nil
}

// exportWorkspace writes a snapshot of ws and returns the file path.
func (e *Env) exportWorkspace(ws *workspace.Workspace, format, dir string) (string, error) {
	opts := export.DefaultOptions()
	if dir != "" {
		opts.OutputDir = dir
	}
	opts.Logger = e.Logger
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(export.FromWorkspace(ws), exporter, opts)
}
