// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/workspace"
)

var errNoDocument = &UsageError{
	Reason:  "indique un documento o use --doc con el identificador de uno ya subido",
	Example: "studydesk summary apuntes.pdf",
}

// docTarget is the document a command works on: a file to upload or the
// id of an uploaded document.
type docTarget struct {
	docID string
}

func (d *docTarget) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.docID, "doc", "", "identificador de un documento ya subido")
}

// resolve returns the id and display name of the target, uploading the
// file in args when no id was given.
func (d *docTarget) resolve(ctx context.Context, env *Env, args []string) (string, string, error) {
	if d.docID != "" {
		return d.docID, d.docID, nil
	}
	if len(args) == 0 {
		return "", "", errNoDocument
	}
	res, err := env.upload(ctx, args[0])
	if err != nil {
		return "", "", err
	}
	return res.DocID, res.Name, nil
}

// upload sends path to the service.
func (e *Env) upload(ctx context.Context, path string) (workspace.UploadResult, error) {
	up := workspace.NewUploader(e.Client, notify.New(e.Config.Notifications.Upload()), e.Logger)
	res, err := up.Run(ctx, path)
	if err != nil {
		if note, ok := up.Notifier().Current(); ok && res.Err == nil {
			// Rejected before any request; the notification says why.
			return res, fmt.Errorf("%s: %w", note.Message, err)
		}
		return res, err
	}
	if e.tty {
		fmt.Fprintln(e.ErrOut, SuccessStyle.Render(workspace.MsgUploaded)+DimStyle.Render(" ("+res.Name+", "+res.DocID+")"))
	}
	return res, nil
}

// openWorkspace opens a workspace on docID.
func (e *Env) openWorkspace(docID, name string, questionCount int) *workspace.Workspace {
	if questionCount <= 0 {
		questionCount = e.Config.Workspace.QuestionCount
	}
	ws := workspace.New(e.Client, workspace.Options{
		QuestionCount:  questionCount,
		NotifyDuration: e.Config.Notifications.Workspace(),
		Logger:         e.Logger,
	})
	ws.Open(docID, name)
	return ws
}

// generate runs action on a fresh workspace for the target.
func (e *Env) generate(ctx context.Context, target *docTarget, args []string, action model.Action, questionCount int) (*workspace.Workspace, error) {
	docID, name, err := target.resolve(ctx, e, args)
	if err != nil {
		return nil, err
	}
	ws := e.openWorkspace(docID, name, questionCount)
	if _, err := ws.Orchestrator().Run(ctx, action); err != nil {
		return nil, err
	}
	return ws, nil
}

// =============================================================================
// UPLOAD
// =============================================================================

func newUploadCommand(env *Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "upload <archivo>",
		Short: "Subir un documento y mostrar su identificador",
		Long: `Sube un documento PDF, DOCX o DOC al servicio y muestra el identificador
que aceptan los demás comandos con --doc.

Examples:
  studydesk upload apuntes.pdf
  studydesk upload tema1.docx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.upload(cmd.Context(), args[0])
			if err != nil {
				return wrapCommand("upload", err)
			}
			if asJSON {
				return env.outputJSON(map[string]string{"doc_id": res.DocID, "name": res.Name})
			}
			fmt.Fprintln(env.Out, res.DocID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	return cmd
}

// =============================================================================
// SUMMARY AND STUDY PLAN
// =============================================================================

func newSummaryCommand(env *Env) *cobra.Command {
	return newTextActionCommand(env, model.ActionSummary, "summary", "Generar el resumen de un documento")
}

func newPlanCommand(env *Env) *cobra.Command {
	cmd := newTextActionCommand(env, model.ActionStudyPlan, "plan", "Generar un plan de estudio")
	cmd.Aliases = []string{"study-plan"}
	return cmd
}

func newTextActionCommand(env *Env, action model.Action, use, short string) *cobra.Command {
	var target docTarget
	cmd := &cobra.Command{
		Use:   use + " [archivo]",
		Short: short,
		Long: short + `.

El documento se indica como archivo, que se sube primero, o con --doc.

Examples:
  studydesk ` + use + ` apuntes.pdf
  studydesk ` + use + ` --doc abc123 > ` + use + `.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := env.generate(cmd.Context(), &target, args, action, 0)
			if err != nil {
				return wrapCommand(use, err)
			}
			text, _ := ws.Session().Content().Text()
			env.printGenerated(action, text)
			return nil
		},
	}
	target.register(cmd)
	return cmd
}

// =============================================================================
// QUESTIONS
// =============================================================================

func newQuestionsCommand(env *Env) *cobra.Command {
	var (
		target docTarget
		count  int
		asJSON bool
		quiz   bool
	)
	cmd := &cobra.Command{
		Use:   "questions [archivo]",
		Short: "Generar preguntas de práctica",
		Long: `Genera preguntas de práctica sobre un documento.

Con --json las preguntas se escriben en JSON, el formato que lee
"studydesk grade --questions". Con --quiz se responden y califican una a una.

Examples:
  studydesk questions apuntes.pdf
  studydesk questions --doc abc123 --count 5 --json > preguntas.json
  studydesk questions --doc abc123 --quiz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := env.generate(cmd.Context(), &target, args, model.ActionQuestions, count)
			if err != nil {
				return wrapCommand("questions", err)
			}
			questions := ws.Grader().Questions()
			switch {
			case asJSON:
				return env.outputJSON(questions)
			case quiz:
				in := NewLineReader("quiz_history")
				defer in.Close()
				return wrapCommand("questions", env.runQuiz(cmd.Context(), ws, in))
			}
			if len(questions) == 0 {
				fmt.Fprintln(env.Out, DimStyle.Render("El servicio no generó preguntas."))
				return nil
			}
			for i, q := range questions {
				fmt.Fprintln(env.Out, formatQuestion(i, q))
			}
			return nil
		},
	}
	target.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 0, "número de preguntas (por defecto el de la configuración)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	cmd.Flags().BoolVar(&quiz, "quiz", false, "responder y calificar las preguntas")
	return cmd
}

// runQuiz asks every question of ws in turn, grading each answer. An empty
// answer skips the question.
func (e *Env) runQuiz(ctx context.Context, ws *workspace.Workspace, in LineReader) error {
	grader := ws.Grader()
	questions := grader.Questions()
	for i, q := range questions {
		fmt.Fprintln(e.Out, formatQuestion(i, q))
		answer, err := in.ReadLine(PromptStyle.Render("respuesta> "))
		if err != nil {
			break
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			fmt.Fprintln(e.Out, DimStyle.Render("(sin responder)"))
			continue
		}
		if q.IsMultipleChoice() {
			if idx := model.OptionIndex(answer); idx >= 0 && idx < len(q.Options) {
				err = grader.SelectOption(q.ID, idx)
			} else {
				err = fmt.Errorf("elija una letra entre A y %s", model.OptionLetter(len(q.Options)-1))
			}
		} else {
			err = grader.SetAnswer(q.ID, answer)
		}
		if err != nil {
			fmt.Fprintln(e.Out, FormatError(err))
			continue
		}

		res, err := grader.Run(ctx, q.ID)
		if err != nil {
			fmt.Fprintln(e.Out, FormatError(err))
			continue
		}
		fmt.Fprintln(e.Out, formatResult(res))
	}
	fmt.Fprint(e.Out, formatSummary(grader.Summary()))
	return nil
}

// =============================================================================
// GRADE
// =============================================================================

func newGradeCommand(env *Env) *cobra.Command {
	var (
		docID         string
		questionsFile string
		questionID    string
		answer        string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Calificar la respuesta a una pregunta",
		Long: `Califica una respuesta a una de las preguntas escritas por
"studydesk questions --json".

Examples:
  studydesk grade --doc abc123 --questions preguntas.json --id 2 --answer B
  studydesk grade --doc abc123 --questions preguntas.json --id 3 --answer "La mitocondria"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuestion(questionsFile, questionID)
			if err != nil {
				return wrapCommand("grade", err)
			}
			answer = strings.TrimSpace(answer)
			if answer == "" {
				return wrapCommand("grade", workspace.ErrNoAnswer)
			}
			if q.IsMultipleChoice() {
				answer = strings.ToUpper(answer)
			}

			env.Logger.Debug("grading", zap.String("doc_id", docID), zap.String("question_id", q.ID))
			res, err := env.Client.Grade(cmd.Context(), docID, q, answer)
			if err != nil {
				return wrapCommand("grade", err)
			}
			if asJSON {
				return env.outputJSON(res)
			}
			fmt.Fprint(env.Out, formatResult(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "identificador del documento")
	cmd.Flags().StringVar(&questionsFile, "questions", "", "archivo JSON de preguntas")
	cmd.Flags().StringVar(&questionID, "id", "", "identificador de la pregunta")
	cmd.Flags().StringVar(&answer, "answer", "", "respuesta a calificar (la letra para opción múltiple)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	for _, name := range []string{"doc", "questions", "id"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// loadQuestion reads a question set written by "questions --json" and
// returns question id.
func loadQuestion(path, id string) (model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Question{}, fmt.Errorf("read questions: %w", err)
	}
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return model.Question{}, fmt.Errorf("parse questions: %w", err)
	}
	for _, q := range questions {
		if q.ID == id {
			return q, nil
		}
	}
	return model.Question{}, fmt.Errorf("%w: %s", workspace.ErrUnknownQuestion, id)
}

// =============================================================================
// ASK
// =============================================================================

func newAskCommand(env *Env) *cobra.Command {
	var target docTarget
	cmd := &cobra.Command{
		Use:   "ask <pregunta> [archivo]",
		Short: "Hacer una pregunta sobre un documento",
		Long: `Hace una sola pregunta sobre un documento y muestra la respuesta.

Examples:
  studydesk ask "¿Cuál es el tema principal?" --doc abc123
  studydesk ask "Explica los conceptos clave" apuntes.pdf`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, name, err := target.resolve(cmd.Context(), env, args[1:])
			if err != nil {
				return wrapCommand("ask", err)
			}
			ws := env.openWorkspace(docID, name, 0)
			reply, err := ws.Conversation().Ask(cmd.Context(), args[0])
			if err != nil {
				return wrapCommand("ask", err)
			}
			fmt.Fprint(env.Out, env.renderMarkdown(reply.Content))
			return nil
		},
	}
	target.register(cmd)
	return cmd
}
