// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// RULES
// =============================================================================

// Rule is a single pattern substitution of the renderer.
type Rule struct {
	Name string
	re   *regexp.Regexp
	repl string
}

// NewRule compiles a rule. Anchored patterns should carry the (?m) flag so
// that ^ and $ match at line boundaries. It panics on an invalid pattern,
// like regexp.MustCompile, since rule sets are built at init time.
func NewRule(name, pattern, repl string) Rule {
	return Rule{
		Name: name,
		re:   regexp.MustCompile(pattern),
		repl: repl,
	}
}

// Apply runs the substitution over text.
func (r Rule) Apply(text string) string {
	return r.re.ReplaceAllString(text, r.repl)
}

// headingRules returns the three heading rules, longest marker first.
func headingRules(prefix string) []Rule {
	return []Rule{
		NewRule("h3", `(?m)^### (.*)$`, `<h3 class="`+prefix+`-h3">${1}</h3>`),
		NewRule("h2", `(?m)^## (.*)$`, `<h2 class="`+prefix+`-h2">${1}</h2>`),
		NewRule("h1", `(?m)^# (.*)$`, `<h1 class="`+prefix+`-h1">${1}</h1>`),
	}
}

// Dots do not match newlines, so neither span can cross a line.
var (
	ruleBold   = NewRule("bold", `\*\*(.*?)\*\*`, `<strong>${1}</strong>`)
	ruleItalic = NewRule("italic", `\*(.*?)\*`, `<em>${1}</em>`)
	ruleCite   = NewRule("citation", `\[Fuente (\d+)\]`, `<span class="citation">Fuente ${1}</span>`)
	ruleBreak  = NewRule("linebreak", `\n`, `<br>`)
	ruleHR     = NewRule("separator", `(?m)^---$`, `<hr>`)
)

func bulletRules(prefix string) []Rule {
	return []Rule{
		NewRule("bullet-star", `(?m)^\* (.*)$`, `<li class="`+prefix+`-li">${1}</li>`),
		NewRule("bullet-dash", `(?m)^- (.*)$`, `<li class="`+prefix+`-li">${1}</li>`),
	}
}

func numberedRule(prefix string) Rule {
	return NewRule("numbered", `(?m)^(\d+)\. (.*)$`, `<li class="`+prefix+`-li-num" value="${1}">${2}</li>`)
}

func checkboxRules() []Rule {
	return []Rule{
		NewRule("checkbox", `(?m)^\[ \] (.*)$`, `<label class="md-checkbox"><input type="checkbox" disabled> ${1}</label>`),
		NewRule("checkbox-checked", `(?m)^\[✓\] (.*)$`, `<label class="md-checkbox"><input type="checkbox" checked disabled> ${1}</label>`),
	}
}

// ChatRules is the rule set for assistant messages in the conversation:
// headings, emphasis, source citations, lists and line breaks.
func ChatRules() []Rule {
	rules := headingRules("chat-md")
	rules = append(rules, ruleBold, ruleItalic, ruleCite)
	rules = append(rules, bulletRules("chat-md")...)
	rules = append(rules, numberedRule("chat-md"), ruleBreak)
	return rules
}

// WorkspaceRules is the rule set for generated content (summaries and study
// plans): headings, emphasis, lists, checkboxes, separators and line breaks.
func WorkspaceRules() []Rule {
	rules := headingRules("md")
	rules = append(rules, ruleBold, ruleItalic)
	rules = append(rules, bulletRules("md")...)
	rules = append(rules, numberedRule("md"))
	rules = append(rules, checkboxRules()...)
	rules = append(rules, ruleHR, ruleBreak)
	return rules
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer turns the constrained markdown dialect produced by the document
// service into markup. Rules run strictly in order, each over the whole
// output of the previous one.
type Renderer struct {
	rules []Rule
}

// New creates a renderer from an ordered rule list.
func New(rules ...Rule) *Renderer {
	r := &Renderer{rules: make([]Rule, len(rules))}
	copy(r.rules, rules)
	return r
}

var (
	chatRenderer      = New(ChatRules()...)
	workspaceRenderer = New(WorkspaceRules()...)
)

// Chat returns the shared renderer for conversation messages.
func Chat() *Renderer { return chatRenderer }

// Workspace returns the shared renderer for generated content.
func Workspace() *Renderer { return workspaceRenderer }

// Render converts text to markup. It never fails; text matched by no rule
// passes through HTML-escaped.
func (r *Renderer) Render(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	out := html.EscapeString(norm.NFC.String(text))
	for _, rule := range r.rules {
		out = rule.Apply(out)
	}
	return out
}

// RuleNames returns the rule names in application order.
func (r *Renderer) RuleNames() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}
