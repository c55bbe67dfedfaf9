// Package emitc is the concrete C code-generation backend, the `-l c`
// default language: a writeHeader/writeSource two-file split expressed
// as template rendering over emit.View.
package emitc

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/version"
)

// Emitter renders a parsed, processed grammar as C source.
type Emitter struct {
	View emit.View
}

// New returns an Emitter bound to v.
func New(v emit.View) *Emitter {
	return &Emitter{View: v}
}

// WriteHeader renders the "<name>.h" file: token `#define`s and the
// public parse/alloc/free function prototypes.
func (e *Emitter) WriteHeader(w io.Writer) error {
	data := e.templateData()
	return headerTemplate.Execute(w, data)
}

// Write renders the "<name>.c" file: the rule and action tables as
// commentary for the driver skeleton.
func (e *Emitter) Write(w io.Writer) error {
	data := e.templateData()
	return sourceTemplate.Execute(w, data)
}

type templateSymbol struct {
	Name       string
	Define     string
	Index      int
	IsTerminal bool
}

type templateRule struct {
	Index int
	LHS   string
	RHS   string
	Text  string
}

type templateAction struct {
	Lookahead string
	Kind      string
	Target    int
}

type templateState struct {
	Index   int
	Actions []templateAction
}

type templateData struct {
	ParserName  string
	TokenType   string
	TokenPrefix string
	ExtraArg    string
	Version     string
	Debug       bool
	Terminals   []templateSymbol
	Rules       []templateRule
	States      []templateState
}

func (e *Emitter) templateData() templateData {
	v := e.View
	prefix, _ := v.Option("token_prefix")
	tokenType, _ := v.Option("token_type")
	extraArg, _ := v.Option("extra_argument")
	name, _ := v.Option("name")
	if name == "" {
		name = "lime_parser"
	}
	debugStr, _ := v.Option("debug")
	debug := debugStr == "true"

	var terms []templateSymbol
	for _, s := range v.Symbols() {
		// The end-of-input sentinel, the error recovery terminal, and
		// the {default} pseudo-symbol never become lexer-visible token
		// defines; real terminals keep their symbol-table index, which
		// is what the action tables key lookaheads by.
		if !s.IsTerminal || s.Name == "$" || s.Name == "error" || s.Name == "{default}" {
			continue
		}
		terms = append(terms, templateSymbol{
			Name:       s.Name,
			Define:     prefix + s.Name,
			Index:      s.Index,
			IsTerminal: true,
		})
	}

	var rules []templateRule
	for _, r := range v.Rules() {
		var rhs strings.Builder
		for i, entry := range r.RHS {
			if i > 0 {
				rhs.WriteByte(' ')
			}
			rhs.WriteString(entry.Name)
		}
		rules = append(rules, templateRule{
			Index: r.Index,
			LHS:   r.LHS,
			RHS:   rhs.String(),
			Text:  fmt.Sprintf("%s ::= %s", r.LHS, rhs.String()),
		})
	}

	var states []templateState
	for _, st := range v.States() {
		var actions []templateAction
		for _, a := range st.Actions {
			if a.Kind == "conflict" {
				continue
			}
			target := a.ShiftState
			if a.Kind == "reduce" {
				target = a.ReduceRule
			}
			actions = append(actions, templateAction{
				Lookahead: a.Lookahead,
				Kind:      a.Kind,
				Target:    target,
			})
		}
		states = append(states, templateState{Index: st.Index, Actions: actions})
	}

	return templateData{
		ParserName:  name,
		TokenType:   tokenType,
		TokenPrefix: prefix,
		ExtraArg:    extraArg,
		Version:     version.Current,
		Debug:       debug,
		Terminals:   terms,
		Rules:       rules,
		States:      states,
	}
}

var headerTemplate = template.Must(template.New("header").Parse(`/*
 * This file auto-generated from {{.ParserName}}.lem by lime version {{.Version}}
 * Editing of this file strongly discouraged.
 */

#ifndef _{{.ParserName}}_h_
#define _{{.ParserName}}_h_

void {{.ParserName}}(void *parser, int tok{{if .TokenType}}, {{.TokenType}} value{{else}}, void *value{{end}}{{if .ExtraArg}}, {{.ExtraArg}}{{end}});
void *{{.ParserName}}Alloc(void);
void {{.ParserName}}Free(void *parser);

{{range .Terminals}}#define {{.Define}} {{.Index}}
{{end}}
#endif
`))

var sourceTemplate = template.Must(template.New("source").Parse(`/*
 * This file auto-generated from {{.ParserName}}.lem by lime version {{.Version}}
 * Editing of this file strongly discouraged.
 */

#include "{{.ParserName}}.h"

{{if .Debug}}#define {{.ParserName}}_DEBUG_TRACE 1
{{end}}
/* Rules */
{{range .Rules}}/* {{.Index}}: {{.Text}} */
{{end}}
/* States and actions */
{{range .States}}/* State {{.Index}} */
{{range .Actions}}/*   {{.Lookahead}} -> {{.Kind}} {{.Target}} */
{{end}}{{end}}
`))
