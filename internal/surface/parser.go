// Package surface is the grammar-file front end: a hand-rolled
// byte/rune scanner (lexer.go) and a declaration/rule state machine
// (this file) that populate an engine.Generator's SymbolTable and
// RuleTable, plus typed diagnostics through internal/limerrors.
package surface

import (
	"os"

	"github.com/kdt3rd/lime/internal/engine"
	"github.com/kdt3rd/lime/internal/grammar"
	"github.com/kdt3rd/lime/internal/limerrors"
	"github.com/kdt3rd/lime/internal/symbol"
)

// state names the grammar-file syntax position the parser is waiting
// at, not an invented abstraction.
type state int

const (
	stateInitialize state = iota
	stateWaitingForDeclOrRule
	stateWaitingForDeclKeyword
	stateWaitingForDeclArg
	stateWaitingForPrecedenceSymbol
	stateWaitingForRuleprod
	stateInRHS
	stateLHSAlias1
	stateLHSAlias2
	stateLHSAlias3
	stateRHSAlias1
	stateRHSAlias2
	statePrecedenceMark1
	statePrecedenceMark2
	stateResyncAfterRuleError
	stateResyncAfterDeclError
	stateWaitingForDestructorSymbol
	stateWaitingForDestructorDecl
	stateWaitingForDatatypeSymbol
	stateWaitingForDatatypeDecl
)

// declKeywords are the recognized %-declaration names that take a
// single value argument, collected into the Generator's Settings map.
var declKeywords = map[string]bool{
	"name":             true,
	"namespace":        true,
	"header_include":   true,
	"include":          true,
	"code":             true,
	"token_destructor": true,
	"token_prefix":     true,
	"syntax_error":     true,
	"parse_accept":     true,
	"parse_failure":    true,
	"stack_overflow":   true,
	"extra_argument":   true,
	"token_type":       true,
	"stack_size":       true,
	"start_symbol":     true,
}

// Parser drives the grammar-file state machine, writing directly into
// the bound Generator's tables. One Parser is used for exactly one
// source file.
type Parser struct {
	gen *engine.Generator

	cur state

	curLHS      string
	curLHSAlias string
	curRHS      []grammar.RHSEntry
	curDeclKey  string

	curPrecCounter int
	curDeclAssoc   symbol.Assoc

	prevRule *grammar.Rule
}

// NewParser returns a Parser that will populate gen.
func NewParser(gen *engine.Generator) *Parser {
	return &Parser{gen: gen, cur: stateInitialize}
}

// ParseFile reads path and parses it into the bound Generator.
func (p *Parser) ParseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		p.gen.Errors.Addf(limerrors.Fatal, p.gen.SourceFile, 0, "file is empty")
		return nil
	}
	p.Parse(string(data))
	return nil
}

// Parse tokenizes and parses src into the bound Generator.
func (p *Parser) Parse(src string) {
	toks := Lex(src, func(line int, format string, args ...any) {
		p.gen.Errors.Addf(limerrors.Fatal, p.gen.SourceFile, line, format, args...)
	})

	p.cur = stateInitialize
	for _, t := range toks {
		p.handleToken(t.Line, t.Text)
	}
}

func (p *Parser) errf(line int, format string, args ...any) {
	p.gen.Errors.Addf(limerrors.Semantic, p.gen.SourceFile, line, format, args...)
}

// handleToken advances the declaration/rule state machine by one
// token. stateInitialize resets the per-file fields and falls through
// into stateWaitingForDeclOrRule.
func (p *Parser) handleToken(line int, tok string) {
	if p.cur == stateInitialize {
		p.prevRule = nil
		p.curPrecCounter = 0
		p.curDeclAssoc = symbol.AssocUnknown
		p.cur = stateWaitingForDeclOrRule
	}

	switch p.cur {
	case stateWaitingForDeclOrRule:
		p.handleWaitingForDeclOrRule(line, tok)

	case statePrecedenceMark1:
		if !isUpper(tok[0]) {
			p.errf(line, "the precedence symbol must be a terminal")
		} else if p.prevRule != nil {
			if p.prevRule.Precedence == "" {
				p.gen.SymbolTable.FindOrCreate(tok)
				p.prevRule.Precedence = tok
			} else {
				p.errf(line, "precedence mark on this line is not the first to follow the previous rule")
			}
		} else {
			p.errf(line, "there is no prior rule to assign precedence %q", tok)
		}
		p.cur = statePrecedenceMark2

	case statePrecedenceMark2:
		if tok[0] != ']' {
			p.errf(line, "missing ']' on precedence mark")
		}
		p.cur = stateWaitingForDeclOrRule

	case stateWaitingForRuleprod:
		switch {
		case tok == "::=":
			p.cur = stateInRHS
		case tok[0] == '(':
			p.cur = stateLHSAlias1
		default:
			p.errf(line, "expected to see \"::=\" following the LHS symbol %q", p.curLHS)
			p.cur = stateResyncAfterRuleError
		}

	case stateLHSAlias1:
		if isAlpha(rune(tok[0])) {
			p.curLHSAlias = tok
			p.cur = stateLHSAlias2
		} else {
			p.errf(line, "%q is not a valid alias for the LHS %q", tok, p.curLHS)
			p.cur = stateResyncAfterRuleError
		}

	case stateLHSAlias2:
		if tok[0] == ')' {
			p.cur = stateLHSAlias3
		} else {
			p.errf(line, "missing ')' following LHS alias name %q", p.curLHS)
			p.cur = stateResyncAfterRuleError
		}

	case stateLHSAlias3:
		if tok == "::=" {
			p.cur = stateInRHS
		} else {
			if p.curLHSAlias != "" {
				p.errf(line, "missing '::=' following: '%s(%s)'", p.curLHS, p.curLHSAlias)
			} else {
				p.errf(line, "missing '::=' following: '%s'", p.curLHS)
			}
			p.cur = stateResyncAfterRuleError
		}

	case stateInRHS:
		p.handleInRHS(line, tok)

	case stateRHSAlias1:
		if isAlpha(rune(tok[0])) {
			p.curRHS[len(p.curRHS)-1].Alias = tok
			p.cur = stateRHSAlias2
		} else {
			p.errf(line, "%q is not a valid alias for RHS symbol %q", tok, p.curRHS[len(p.curRHS)-1].Name)
			p.cur = stateResyncAfterRuleError
		}

	case stateRHSAlias2:
		if tok[0] == ')' {
			p.cur = stateInRHS
		} else {
			p.errf(line, "missing ')' following RHS name %q", p.curRHS[len(p.curRHS)-1].Name)
			p.cur = stateResyncAfterRuleError
		}

	case stateWaitingForDeclKeyword:
		p.handleWaitingForDeclKeyword(line, tok)

	case stateWaitingForDestructorSymbol:
		if isAlpha(rune(tok[0])) {
			p.gen.SymbolTable.FindOrCreate(tok)
			p.curDeclKey = tok
			p.cur = stateWaitingForDestructorDecl
		} else {
			p.errf(line, "symbol name missing after %%destructor keyword")
			p.cur = stateResyncAfterDeclError
		}

	case stateWaitingForDestructorDecl:
		if tok[0] == '{' || tok[0] == '"' || isAlnum(rune(tok[0])) {
			sym := p.gen.SymbolTable.FindOrCreate(p.curDeclKey)
			if sym.Destructor == "" {
				sym.Destructor = chompString(tok, true)
				sym.DestructorLine = line
				p.cur = stateWaitingForDeclOrRule
			} else {
				p.errf(line, "duplicate definition of destructor for %q", p.curDeclKey)
				p.cur = stateResyncAfterDeclError
			}
		} else {
			p.errf(line, "illegal argument to destructor declaration for %q: %q", p.curDeclKey, tok)
			p.cur = stateResyncAfterDeclError
		}

	case stateWaitingForDatatypeSymbol:
		if isAlpha(rune(tok[0])) {
			p.gen.SymbolTable.FindOrCreate(tok)
			p.curDeclKey = tok
			p.cur = stateWaitingForDatatypeDecl
		} else {
			p.errf(line, "symbol name missing after %%type keyword")
			p.cur = stateResyncAfterDeclError
		}

	case stateWaitingForDatatypeDecl:
		if tok[0] == '{' || tok[0] == '"' || isAlnum(rune(tok[0])) {
			sym := p.gen.SymbolTable.FindOrCreate(p.curDeclKey)
			if sym.DataType == "" {
				sym.DataType = chompString(tok, true)
				p.cur = stateWaitingForDeclOrRule
			} else {
				p.errf(line, "duplicate definition of data type for %q", p.curDeclKey)
				p.cur = stateResyncAfterDeclError
			}
		} else {
			p.errf(line, "illegal argument to data type declaration for %q: %q", p.curDeclKey, tok)
			p.cur = stateResyncAfterDeclError
		}

	case stateWaitingForPrecedenceSymbol:
		switch {
		case tok[0] == '.':
			p.cur = stateWaitingForDeclOrRule
		case isUpper(tok[0]):
			sym := p.gen.SymbolTable.FindOrCreate(tok)
			if sym.Precedence == -1 {
				sym.Precedence = p.curPrecCounter
				sym.Assoc = p.curDeclAssoc
			} else {
				p.errf(line, "symbol %q has already been given a precedence", sym.Name)
			}
		default:
			p.errf(line, "unable to assign a precedence to %q", tok)
		}

	case stateWaitingForDeclArg:
		if tok[0] == '{' || tok[0] == '"' || isAlnum(rune(tok[0])) {
			val := chompString(tok, true)
			if _, exists := p.gen.Settings[p.curDeclKey]; exists {
				p.errf(line, "duplicate definition of value for %q", p.curDeclKey)
				p.cur = stateResyncAfterDeclError
			} else {
				p.gen.Settings[p.curDeclKey] = engine.Setting{Value: val, Line: line}
				p.cur = stateWaitingForDeclOrRule
			}
		} else {
			p.errf(line, "illegal argument to value setting for %q: %q", p.curDeclKey, tok)
			p.cur = stateResyncAfterDeclError
		}

	case stateResyncAfterRuleError, stateResyncAfterDeclError:
		if tok[0] == '.' {
			p.cur = stateWaitingForDeclOrRule
		}
		if tok[0] == '%' {
			p.cur = stateWaitingForDeclKeyword
		}

	default:
		p.errf(line, "state machine entered invalid state %d", int(p.cur))
	}
}

func (p *Parser) handleWaitingForDeclOrRule(line int, tok string) {
	switch {
	case tok[0] == '%':
		p.cur = stateWaitingForDeclKeyword

	case isLower(tok[0]):
		p.gen.SymbolTable.FindOrCreate(tok)
		p.curLHS = tok
		p.curLHSAlias = ""
		p.curRHS = nil
		p.cur = stateWaitingForRuleprod

	case tok[0] == '{':
		if p.prevRule != nil {
			if p.prevRule.Code == "" {
				p.prevRule.Code = chompString(tok, false)
				p.prevRule.CodeLine = line
			} else {
				p.errf(line, "multiple code fragments for rule found at this line")
			}
		} else {
			p.errf(line, "no rule to attach the code fragment starting at this line")
		}

	case tok[0] == '[':
		p.cur = statePrecedenceMark1

	default:
		p.errf(line, "token %q should be either \"%%\" or a nonterminal name", tok)
	}
}

func (p *Parser) handleInRHS(line int, tok string) {
	switch {
	case tok[0] == '.':
		r := p.gen.RuleTable.Create(p.curLHS)
		r.LHSAlias = p.curLHSAlias
		r.Line = line
		p.gen.RuleTable.SetRHS(r, p.curRHS)
		p.prevRule = r
		p.cur = stateWaitingForDeclOrRule

	case isAlpha(rune(tok[0])):
		p.gen.SymbolTable.FindOrCreate(tok)
		p.curRHS = append(p.curRHS, grammar.RHSEntry{Name: tok})

	case tok[0] == '(' && len(p.curRHS) > 0:
		p.cur = stateRHSAlias1

	default:
		p.errf(line, "illegal identifier in RHS of rule: %q", tok)
		p.cur = stateResyncAfterRuleError
	}
}

func (p *Parser) handleWaitingForDeclKeyword(line int, tok string) {
	if !isAlpha(rune(tok[0])) {
		p.errf(line, "invalid declaration symbol %q", tok)
		p.cur = stateResyncAfterDeclError
		return
	}

	switch {
	case declKeywords[tok]:
		p.curDeclKey = tok
		p.cur = stateWaitingForDeclArg

	case tok == "left":
		p.curPrecCounter++
		p.curDeclAssoc = symbol.AssocLeft
		p.cur = stateWaitingForPrecedenceSymbol

	case tok == "right":
		p.curPrecCounter++
		p.curDeclAssoc = symbol.AssocRight
		p.cur = stateWaitingForPrecedenceSymbol

	case tok == "nonassoc":
		p.curPrecCounter++
		p.curDeclAssoc = symbol.AssocNone
		p.cur = stateWaitingForPrecedenceSymbol

	case tok == "destructor":
		p.cur = stateWaitingForDestructorSymbol

	case tok == "type":
		p.cur = stateWaitingForDatatypeSymbol

	default:
		p.errf(line, "unknown declaration name %q", tok)
		p.cur = stateResyncAfterDeclError
	}
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
