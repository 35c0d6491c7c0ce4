// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jeranaias/studydesk/internal/markup"
	"github.com/jeranaias/studydesk/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports snapshots to HTML format with embedded CSS.
type HTMLExporter struct {
	options *Options
	policy  *bluemonday.Policy
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Theme != "light" {
		opts.Theme = "dark"
	}
	return &HTMLExporter{options: opts, policy: markupPolicy()}
}

// markupPolicy allows exactly the elements the markup renderer emits.
func markupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "strong", "em", "br", "hr", "li", "span", "label")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "li", "span", "label")
	p.AllowAttrs("value").Matching(bluemonday.Integer).OnElements("li")
	p.AllowAttrs("type").Matching(bluemonday.Paragraph).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

// Export converts a snapshot to HTML format.
func (e *HTMLExporter) Export(snap *Snapshot) ([]byte, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"es\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(snap.Title())))
	sb.WriteString("    <meta name=\"generator\" content=\"studydesk\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", snap.ExportedAt.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(snap))
	}

	if snap.Content != nil {
		sb.WriteString("        <section class=\"content\">\n")
		sb.WriteString(fmt.Sprintf("            <h2 class=\"section-title\">%s</h2>\n", html.EscapeString(snap.Content.Title)))
		sb.WriteString("            <div class=\"md-body\">")
		sb.WriteString(e.render(markup.Workspace(), snap.Content.Text))
		sb.WriteString("</div>\n")
		sb.WriteString("        </section>\n")
	}

	if len(snap.Questions) > 0 {
		sb.WriteString("        <section class=\"questions\">\n")
		sb.WriteString(fmt.Sprintf("            <h2 class=\"section-title\">%s</h2>\n", model.ActionQuestions.Title()))
		for i, q := range snap.Questions {
			sb.WriteString(e.renderQuestion(i, q))
		}
		sb.WriteString("        </section>\n")
	}

	if len(snap.Messages) > 0 {
		sb.WriteString("        <main class=\"conversation\">\n")
		for _, msg := range snap.Messages {
			sb.WriteString(e.renderMessage(msg))
		}
		sb.WriteString("        </main>\n")
	}

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exportado con <strong>studydesk</strong> el %s</p>\n",
		formatTimestamp(snap.ExportedAt)))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(e.getScript())
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// render converts text with r and sanitizes the result.
func (e *HTMLExporter) render(r *markup.Renderer, text string) string {
	return e.policy.Sanitize(r.Render(text))
}

// renderHeader renders the header section with metadata.
func (e *HTMLExporter) renderHeader(snap *Snapshot) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(snap.Title())))
	sb.WriteString("            <div class=\"metadata\">\n")
	if snap.DocID != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Documento:</strong> %s</span>\n", html.EscapeString(snap.DocID)))
	}
	if !snap.OpenedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Abierto:</strong> %s</span>\n", formatTimestamp(snap.OpenedAt)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Mensajes:</strong> %d</span>\n", len(snap.Messages)))
	if p := snap.Progress; p != nil {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Calificadas:</strong> %d/%d</span>\n", p.Graded, p.Total))
	}
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Cambiar tema\">[Tema]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// renderQuestion renders one question card with its result.
func (e *HTMLExporter) renderQuestion(i int, q QuestionRecord) string {
	var sb strings.Builder

	sb.WriteString("            <div class=\"question-card\">\n")
	sb.WriteString(fmt.Sprintf("                <div class=\"question-header\"><span class=\"question-number\">Pregunta %d</span> <span class=\"question-type\">%s</span></div>\n",
		i+1, model.Question{Type: q.Type}.TypeLabel()))
	sb.WriteString(fmt.Sprintf("                <p class=\"question-text\">%s</p>\n", html.EscapeString(q.Prompt)))

	if len(q.Options) > 0 {
		sb.WriteString("                <ol class=\"options\" type=\"A\">\n")
		for j, opt := range q.Options {
			class := "option"
			if q.Answer == model.OptionLetter(j) {
				class += " selected"
			}
			sb.WriteString(fmt.Sprintf("                    <li class=\"%s\">%s</li>\n", class, html.EscapeString(opt)))
		}
		sb.WriteString("                </ol>\n")
	} else if q.Answer != "" {
		sb.WriteString(fmt.Sprintf("                <p class=\"answer\"><strong>Respuesta:</strong> %s</p>\n", html.EscapeString(q.Answer)))
	}

	if r := q.Result; r != nil {
		verdictClass := "incorrect"
		if r.Correct {
			verdictClass = "correct"
		}
		sb.WriteString(fmt.Sprintf("                <div class=\"result %s\">\n", verdictClass))
		sb.WriteString(fmt.Sprintf("                    <strong>%s</strong> <span class=\"score\">Puntuación: %d%%</span>\n", r.Verdict(), r.Percent()))
		if r.Feedback != "" {
			sb.WriteString(fmt.Sprintf("                    <p>%s</p>\n", html.EscapeString(r.Feedback)))
		}
		if r.ExpectedAnswer != "" {
			sb.WriteString(fmt.Sprintf("                    <p class=\"expected\"><strong>Respuesta esperada:</strong> %s</p>\n", html.EscapeString(r.ExpectedAnswer)))
		}
		sb.WriteString("                </div>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// renderMessage renders a single message. Assistant messages go through
// the chat markup rules; user messages are plain text.
func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", msg.Role))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", msg.Role.DisplayName()))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">")
	if msg.Role == model.RoleAssistant {
		sb.WriteString(e.render(markup.Chat(), msg.Content))
	} else {
		sb.WriteString(strings.ReplaceAll(html.EscapeString(msg.Content), "\n", "<br>"))
	}
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #f6f8fa;
            --assistant-bg: #ffffff;
            --accent-blue: #0366d6;
            --accent-green: #28a745;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 900px; margin: 0 auto; padding: 2rem 1rem; }
        .header { border-bottom: 1px solid var(--border-color); padding-bottom: 1rem; margin-bottom: 2rem; }
        .header h1 { color: var(--accent-blue); margin-bottom: 0.5rem; }
        .metadata { display: flex; flex-wrap: wrap; gap: 1rem; color: var(--text-muted); font-size: 0.9rem; }
        .theme-toggle { margin-left: auto; background: none; border: 1px solid var(--border-color); color: var(--text-primary); border-radius: 4px; padding: 0 0.5rem; cursor: pointer; }

        section { margin-bottom: 2rem; }
        .section-title { color: var(--accent-purple); margin-bottom: 1rem; }
        .md-body li, .message-content li { margin-left: 1.5rem; }
        .md-h1, .md-h2, .md-h3, .chat-md-h1, .chat-md-h2, .chat-md-h3 { margin: 0.75rem 0 0.25rem; color: var(--accent-blue); }
        .md-checkbox { display: block; }
        .citation { background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 4px; padding: 0 0.3rem; font-size: 0.85rem; color: var(--accent-purple); }

        .question-card { background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
        .question-header { display: flex; justify-content: space-between; color: var(--text-muted); font-size: 0.85rem; }
        .question-text { font-weight: 600; margin: 0.5rem 0; }
        .options { margin-left: 1.5rem; }
        .option.selected { color: var(--accent-blue); font-weight: 600; }
        .result { margin-top: 0.75rem; padding: 0.5rem 0.75rem; border-left: 4px solid; }
        .result.correct { border-color: var(--accent-green); }
        .result.incorrect { border-color: var(--accent-red); }
        .score { margin-left: 0.5rem; color: var(--text-muted); }

        .message { border-radius: 8px; padding: 1rem; margin-bottom: 1rem; border: 1px solid var(--border-color); }
        .user-message { background: var(--user-bg); }
        .assistant-message { background: var(--assistant-bg); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 0.5rem; }
        .role-label { font-weight: 600; color: var(--accent-blue); }
        .timestamp { color: var(--text-muted); font-size: 0.8rem; }

        .footer { text-align: center; color: var(--text-muted); font-size: 0.85rem; margin-top: 3rem; }
    </style>
`
}

// getScript returns the embedded JavaScript for theme toggling.
func (e *HTMLExporter) getScript() string {
	return `    <script>
        function toggleTheme() {
            const body = document.body;
            if (body.classList.contains('dark-theme')) {
                body.classList.remove('dark-theme');
                body.classList.add('light-theme');
                localStorage.setItem('theme', 'light');
            } else {
                body.classList.remove('light-theme');
                body.classList.add('dark-theme');
                localStorage.setItem('theme', 'dark');
            }
        }

        // Load saved theme preference
        document.addEventListener('DOMContentLoaded', function() {
            const savedTheme = localStorage.getItem('theme');
            if (savedTheme) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(savedTheme + '-theme');
            }
        });
    </script>
`
}
