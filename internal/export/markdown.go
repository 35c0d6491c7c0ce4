// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/studydesk/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports snapshots to Markdown format. Generated content is
// already in the service's markdown dialect and is written unchanged.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a snapshot to Markdown format.
func (e *MarkdownExporter) Export(snap *Snapshot) ([]byte, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(snap.Title())))
		sb.WriteString(fmt.Sprintf("doc_id: %s\n", escapeYAML(snap.DocID)))
		if !snap.OpenedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("opened: %s\n", snap.OpenedAt.Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", snap.ExportedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(snap.Messages)))
		sb.WriteString("generator: studydesk\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(snap.Title())))

	if snap.Content != nil {
		sb.WriteString(fmt.Sprintf("## %s\n\n", snap.Content.Title))
		sb.WriteString(strings.TrimSpace(snap.Content.Text))
		sb.WriteString("\n\n---\n\n")
	}

	if len(snap.Questions) > 0 {
		sb.WriteString(fmt.Sprintf("## %s\n\n", model.ActionQuestions.Title()))
		if e.options.IncludeMetadata && snap.Progress != nil {
			sb.WriteString(e.formatProgress(snap.Progress))
		}
		for i, q := range snap.Questions {
			sb.WriteString(e.formatQuestion(i, q))
		}
		sb.WriteString("---\n\n")
	}

	if len(snap.Messages) > 0 {
		sb.WriteString("## Conversación\n\n")
		for _, msg := range snap.Messages {
			sb.WriteString(e.formatMessage(msg))
		}
	}

	sb.WriteString("*Exportado con studydesk*\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING
// =============================================================================

func (e *MarkdownExporter) formatProgress(p *Progress) string {
	return fmt.Sprintf("- **Calificadas**: %d de %d\n- **Correctas**: %d\n- **Puntuación media**: %d%%\n\n",
		p.Graded, p.Total, p.Correct, int(p.MeanScore*100+0.5))
}

func (e *MarkdownExporter) formatQuestion(i int, q QuestionRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Pregunta %d (%s)\n\n", i+1, model.Question{Type: q.Type}.TypeLabel()))
	sb.WriteString(q.Prompt)
	sb.WriteString("\n\n")

	for j, opt := range q.Options {
		sb.WriteString(fmt.Sprintf("%s) %s\n", model.OptionLetter(j), opt))
	}
	if len(q.Options) > 0 {
		sb.WriteString("\n")
	}

	if q.Answer != "" {
		sb.WriteString(fmt.Sprintf("**Respuesta**: %s\n\n", q.Answer))
	}
	if q.Result != nil {
		sb.WriteString(fmt.Sprintf("> **%s** · Puntuación: %d%%\n", q.Result.Verdict(), q.Result.Percent()))
		if q.Result.Feedback != "" {
			sb.WriteString(fmt.Sprintf("> %s\n", q.Result.Feedback))
		}
		if q.Result.ExpectedAnswer != "" {
			sb.WriteString(fmt.Sprintf("> Respuesta esperada: %s\n", q.Result.ExpectedAnswer))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *MarkdownExporter) formatMessage(msg model.Message) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**", msg.Role.DisplayName()))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf(" <sub>%s</sub>", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(msg.Content))
	sb.WriteString("\n\n")
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
