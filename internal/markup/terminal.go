// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// =============================================================================
// TERMINAL PRESENTATION
// =============================================================================

// Styles controls how rendered markup is drawn in a terminal.
type Styles struct {
	H1       lipgloss.Style
	H2       lipgloss.Style
	H3       lipgloss.Style
	Strong   lipgloss.Style
	Em       lipgloss.Style
	Citation lipgloss.Style
	Bullet   lipgloss.Style
	Number   lipgloss.Style
	Checkbox lipgloss.Style
	Rule     lipgloss.Style

	// RuleWidth is the width of a horizontal separator in cells.
	RuleWidth int
}

// DefaultStyles returns uncolored styles that only use text attributes.
func DefaultStyles() Styles {
	return Styles{
		H1:        lipgloss.NewStyle().Bold(true).Underline(true),
		H2:        lipgloss.NewStyle().Bold(true),
		H3:        lipgloss.NewStyle().Bold(true),
		Strong:    lipgloss.NewStyle().Bold(true),
		Em:        lipgloss.NewStyle().Italic(true),
		Citation:  lipgloss.NewStyle().Faint(true),
		Bullet:    lipgloss.NewStyle(),
		Number:    lipgloss.NewStyle(),
		Checkbox:  lipgloss.NewStyle(),
		Rule:      lipgloss.NewStyle().Faint(true),
		RuleWidth: 40,
	}
}

// Terminal draws markup produced by a Renderer as styled terminal text.
// Tags it does not know are dropped and their text kept.
func Terminal(src string, st Styles) string {
	if src == "" {
		return ""
	}
	if st.RuleWidth <= 0 {
		st.RuleWidth = 40
	}

	var (
		out      strings.Builder
		heading  strings.Builder
		rank     int
		strong   int
		em       int
		spans    []bool // true for citation spans
		citation int
	)

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if rank > 0 {
				out.WriteString(headingStyle(st, rank).Render(heading.String()))
			}
			return out.String()

		case html.TextToken:
			text := string(z.Text())
			if rank > 0 {
				heading.WriteString(text)
				continue
			}
			if strong == 0 && em == 0 && citation == 0 {
				out.WriteString(text)
				continue
			}
			style := lipgloss.NewStyle()
			if citation > 0 {
				style = st.Citation
			}
			if strong > 0 {
				style = style.Inherit(st.Strong)
			}
			if em > 0 {
				style = style.Inherit(st.Em)
			}
			out.WriteString(style.Render(text))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := readAttrs(z, hasAttr)
			switch string(name) {
			case "h1", "h2", "h3":
				rank = int(name[1] - '0')
				heading.Reset()
			case "strong":
				strong++
			case "em":
				em++
			case "span":
				isCite := attrs["class"] == "citation"
				spans = append(spans, isCite)
				if isCite {
					citation++
				}
			case "li":
				if v, ok := attrs["value"]; ok {
					out.WriteString(st.Number.Render(v+".") + " ")
				} else {
					out.WriteString(st.Bullet.Render("•") + " ")
				}
			case "input":
				if _, ok := attrs["checked"]; ok {
					out.WriteString(st.Checkbox.Render("[✓]"))
				} else {
					out.WriteString(st.Checkbox.Render("[ ]"))
				}
			case "hr":
				out.WriteString(st.Rule.Render(strings.Repeat("─", st.RuleWidth)))
			case "br":
				out.WriteString("\n")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "h1", "h2", "h3":
				out.WriteString(headingStyle(st, rank).Render(heading.String()))
				rank = 0
			case "strong":
				if strong > 0 {
					strong--
				}
			case "em":
				if em > 0 {
					em--
				}
			case "span":
				if n := len(spans); n > 0 {
					if spans[n-1] {
						citation--
					}
					spans = spans[:n-1]
				}
			}
		}
	}
}

// PlainText strips markup to its text with line breaks, for non-styled output.
func PlainText(src string) string {
	plain := lipgloss.NewStyle()
	st := Styles{
		H1: plain, H2: plain, H3: plain,
		Strong: plain, Em: plain, Citation: plain,
		Bullet: plain, Number: plain, Checkbox: plain, Rule: plain,
		RuleWidth: 40,
	}
	return Terminal(src, st)
}

func headingStyle(st Styles, rank int) lipgloss.Style {
	switch rank {
	case 1:
		return st.H1
	case 2:
		return st.H2
	default:
		return st.H3
	}
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}
