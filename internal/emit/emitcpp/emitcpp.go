// Package emitcpp is the C++ code-generation backend behind the
// `-l c++` and `-l z` language selections: a pimpl-wrapped parser class
// driven by a flat state/rule table, with the value stack typed as a
// type-erased "any" container. The two dialects differ only in which
// any-container and smart pointer they reach for: plain C++ uses
// std::any/std::unique_ptr, the Zion Core dialect uses
// Util::Any/ValuePtr and pulls in <Core.h>.
//
// The generated source is assembled through ordered write methods
// rather than one big template: the output interleaves #line directives
// whose values depend on how many lines have been written so far, which
// a template cannot express.
package emitcpp

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/version"
)

// Dialect selects the flavor of C++ the emitter writes.
type Dialect int

const (
	// Std is portable C++ with a std::any value stack.
	Std Dialect = iota
	// Zion is C++ against the Zion Core library: Util::Any value
	// stack, ValuePtr pimpl holder, and should be exception safe.
	Zion
)

// isInternalSymbol reports whether name never becomes a lexer-visible
// token: the end-of-input sentinel is exposed as <prefix>EOF = 0
// instead, the error terminal is only shifted internally during
// recovery, and {default} keys default actions in the table.
func isInternalSymbol(name string) bool {
	return name == "$" || name == "error" || name == "{default}"
}

// Emitter renders a processed grammar as a C++ parser class.
type Emitter struct {
	view    emit.View
	dialect Dialect

	name      string
	pimpl     string
	namespace string
	tokenType string
	prefix    string
	debug     bool

	// ", int *foo, char bar" / "foo, bar" forms of %extra_argument,
	// precomputed once so every signature and call site agrees.
	extraArg     string
	extraArgCall string

	symbols   []emit.SymbolView
	symIndex  map[string]int
	symByName map[string]emit.SymbolView

	sourceName string
	headerName string
	outName    string
}

// New returns an Emitter for v writing the given dialect.
func New(v emit.View, d Dialect) *Emitter {
	e := &Emitter{view: v, dialect: d}

	e.name, _ = v.Option("name")
	if e.name == "" {
		e.name = "lime_parser"
	}
	e.pimpl = "priv" + e.name + "Impl"
	e.namespace, _ = v.Option("namespace")
	e.tokenType, _ = v.Option("token_type")
	e.prefix, _ = v.Option("token_prefix")
	debugStr, _ := v.Option("debug")
	e.debug = debugStr == "true"

	if extra, ok := v.Option("extra_argument"); ok && extra != "" {
		e.extraArg = ", " + extra
		e.extraArgCall = callArgs(extra)
	}

	e.symbols = v.Symbols()
	e.symIndex = make(map[string]int, len(e.symbols))
	e.symByName = make(map[string]emit.SymbolView, len(e.symbols))
	for _, s := range e.symbols {
		e.symIndex[s.Name] = s.Index
		e.symByName[s.Name] = s
	}

	e.sourceName, _ = v.Option("source_file")
	if e.sourceName == "" {
		e.sourceName = e.name + ".lem"
	}
	e.headerName = filepath.Base(v.OutputPath("h"))
	e.outName = filepath.Base(v.OutputPath("cpp"))

	return e
}

// callArgs strips "int *foo, const char &bar" down to "foo, bar" so the
// extra arguments can be forwarded through the pimpl boundary.
func callArgs(extra string) string {
	var names []string
	for _, piece := range strings.Split(extra, ",") {
		piece = strings.TrimRight(piece, " \t")
		idx := strings.LastIndexAny(piece, " \t*&")
		names = append(names, piece[idx+1:])
	}
	return strings.Join(names, ", ")
}

func (e *Emitter) anyType() string {
	if e.dialect == Zion {
		return "Util::Any"
	}
	return "std::any"
}

func (e *Emitter) anyCast(typ, expr string) string {
	if typ == "" {
		typ = "void *"
	}
	if e.dialect == Zion {
		return fmt.Sprintf("Util::any_cast< %s >( %s )", typ, expr)
	}
	return fmt.Sprintf("std::any_cast< %s >( %s )", typ, expr)
}

// tokenParam renders the value parameter of the public parse()
// signature: "void *value" by default, or the declared %token_type with
// a space elided after a trailing '*' or '&'.
func (e *Emitter) tokenParam() string {
	if e.tokenType == "" {
		return "void *value"
	}
	if strings.HasSuffix(e.tokenType, "*") || strings.HasSuffix(e.tokenType, "&") {
		return e.tokenType + "value"
	}
	return e.tokenType + " value"
}

// terminals returns the lexer-visible terminal symbols in index order.
// Their symbol-table indices double as the Terminal enum values, which
// is what the generated tables key lookaheads by.
func (e *Emitter) terminals() []emit.SymbolView {
	var out []emit.SymbolView
	for _, s := range e.symbols {
		if s.IsTerminal && !isInternalSymbol(s.Name) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Emitter) dataType(name string) string {
	sym, ok := e.symByName[name]
	if !ok {
		return ""
	}
	if sym.IsTerminal || sym.DataType == "" {
		return e.tokenType
	}
	return sym.DataType
}

func (e *Emitter) namespaceParts() (guard, nsStart, nsEnd string) {
	guard = "_"
	if e.namespace != "" {
		for _, comp := range strings.Split(e.namespace, "::") {
			if comp == "" {
				continue
			}
			guard += comp + "_"
			nsStart += "namespace " + comp + "\n{\n"
			nsEnd += "\n} // namespace " + comp
		}
	}
	guard += e.name + "_h_"
	return guard, nsStart, nsEnd
}

// lineWriter tracks the 1-based line number of the next line written,
// so #line directives can refer back into the generated file, and
// carries the first write error so the emit methods stay linear.
type lineWriter struct {
	w    io.Writer
	line int
	err  error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: w, line: 1}
}

func (lw *lineWriter) printf(format string, a ...interface{}) {
	if lw.err != nil {
		return
	}
	s := fmt.Sprintf(format, a...)
	lw.line += strings.Count(s, "\n")
	_, lw.err = io.WriteString(lw.w, s)
}

func (e *Emitter) lineInfo(out *lineWriter, file string, line int) {
	out.printf("#line %d \"%s\"\n", line, file)
}

func (e *Emitter) emitValue(out *lineWriter, name string) {
	if v, ok := e.view.Option(name); ok && v != "" {
		out.printf("%s\n", v)
	}
}

func (e *Emitter) banner(out *lineWriter) {
	out.printf("// This file auto-generated from %s by lime version %s\n", e.sourceName, version.Current)
	out.printf("// Editing of this file strongly discouraged.\n")
}

// WriteHeader renders the public header: the parser class with its
// Terminal enum, parse entry point, and pimpl holder.
func (e *Emitter) WriteHeader(w io.Writer) error {
	out := newLineWriter(w)
	guard, nsStart, nsEnd := e.namespaceParts()

	e.banner(out)
	out.printf("\n#ifndef %s\n#define %s\n", guard, guard)
	e.emitValue(out, "header_include")
	if e.dialect == Std {
		out.printf("\n#include <memory>\n")
	}
	out.printf("\nclass %s;\n", e.pimpl)

	out.printf("\n\n%s\n", nsStart)
	out.printf("class %s\n{\npublic:\n", e.name)

	out.printf("\n    enum Terminal\n    {\n")
	out.printf("        %sEOF = 0", e.prefix)
	for _, s := range e.terminals() {
		out.printf(",\n        %s%s = %d", e.prefix, s.Name, s.Index)
	}
	out.printf("\n    };\n")

	out.printf("\n    %s( void );\n", e.name)
	out.printf("    ~%s( void );\n", e.name)
	out.printf("\n\n    void parse( %s::Terminal tok, %s%s );\n", e.name, e.tokenParam(), e.extraArg)

	out.printf("\nprivate:\n")
	out.printf("    // No copying of this class\n")
	out.printf("    %s( const %s & );\n", e.name, e.name)
	out.printf("    %s &operator=( const %s & );\n", e.name, e.name)
	if e.dialect == Zion {
		out.printf("    ValuePtr<%s> myImplementation;\n", e.pimpl)
	} else {
		out.printf("    std::unique_ptr<%s> myImplementation;\n", e.pimpl)
	}
	out.printf("\n\n};\n")
	out.printf("%s\n\n", nsEnd)
	out.printf("#endif /* %s */\n", guard)

	return out.err
}

// Write renders the implementation file: the pimpl class, the flat
// state/rule tables, and the parse driver with error recovery.
func (e *Emitter) Write(w io.Writer) error {
	out := newLineWriter(w)

	e.banner(out)
	e.emitValue(out, "include")

	if e.dialect == Zion {
		out.printf("\n#include <Core.h>\n")
	}
	out.printf("\n#include \"%s\"\n", e.headerName)
	out.printf("\n#include <utility>\n")
	out.printf("#include <stack>\n")
	out.printf("#include <map>\n")
	out.printf("#include <vector>\n")
	out.printf("#include <iostream>\n")
	if e.dialect == Zion {
		out.printf("#include <Util/Any.h>\n")
	} else {
		out.printf("#include <any>\n")
		out.printf("#include <memory>\n")
	}

	if e.namespace != "" {
		e.funcBreak(out)
		out.printf("using %s::%s;\n", strings.TrimSuffix(e.namespace, "::"), e.name)
	}

	e.writeImplClassDecl(out)
	e.writeParserCtorDtor(out)
	e.writeMainParserFunc(out)
	e.writeImplClassCtorDtor(out)
	e.writeShiftFunc(out)
	e.writeReduceFunc(out)
	e.writeAcceptFunc(out)
	e.writeDestructorHandler(out)
	e.writeParserUtil(out)
	e.writeErrorRoutines(out)
	e.emitValue(out, "code")

	return out.err
}

func (e *Emitter) funcBreak(out *lineWriter) {
	out.printf("\n\n////////////////////////////////////////\n\n\n")
}

func (e *Emitter) writeImplClassDecl(out *lineWriter) {
	out.printf("\nenum ParserAct\n{\n")
	out.printf("    PA_SHIFT,\n    PA_REDUCE,\n    PA_ERROR,\n    PA_ACCEPT,\n    PA_NOP\n};\n\n")

	out.printf("class %s\n{\npublic:\n\n", e.pimpl)
	out.printf("    %s( void );\n", e.pimpl)
	out.printf("    ~%s( void );\n", e.pimpl)
	out.printf("\n\n    void parse( %s::Terminal tok, %s%s );\n", e.name, e.tokenParam(), e.extraArg)

	out.printf("\nprivate:\n")
	out.printf("    // first is state num, second is the symbol index\n")
	out.printf("    typedef std::pair<int,int> StackID;\n")
	out.printf("    typedef std::pair<StackID,%s> StackEntry;\n", e.anyType())
	out.printf("    typedef std::stack<StackEntry> ParseStack;\n\n")

	out.printf("    void shift( int newState, int symIdx, const %s &data );\n", e.anyType())
	out.printf("    void reduce( int ruleNum%s );\n", e.extraArg)
	if e.isValueSet("parse_accept") {
		if e.extraArg == "" {
			out.printf("    void accept( void );\n")
		} else {
			out.printf("    void accept( %s );\n", strings.TrimPrefix(e.extraArg, ", "))
		}
	}
	out.printf("    void callDtor( int symIdx, %s &data );\n", e.anyType())
	out.printf("    void popStack( void );\n")
	out.printf("    ParserAct findParserAction( int &newVal, int tok );\n")
	out.printf("    void initTables( void );\n")
	out.printf("    void syntaxError( %s::Terminal tok, const %s &data%s );\n", e.name, e.anyType(), e.extraArg)
	if e.extraArg == "" {
		out.printf("    void parseFailed( void );\n")
	} else {
		out.printf("    void parseFailed( %s );\n", strings.TrimPrefix(e.extraArg, ", "))
	}

	out.printf("\n    ParseStack myStack;\n")
	out.printf("    int myErrCount;\n")

	out.printf("\n\n    typedef std::pair<ParserAct,int> ActionEntry;\n")
	out.printf("    typedef std::map<int,ActionEntry> ActionMap;\n")
	out.printf("    typedef std::vector<ActionMap> StateList;\n")
	out.printf("    typedef std::vector<ActionEntry> StateDefaultList;\n\n")
	out.printf("    StateList myStates;\n")
	out.printf("    StateDefaultList myStateDefaultActions;\n")

	out.printf("\n\n    // first is LHS, second is number of RHS\n")
	out.printf("    typedef std::pair<int,int> RuleInfo;\n")
	out.printf("    typedef std::vector<RuleInfo> RuleList;\n\n")
	out.printf("    RuleList myRules;\n")
	out.printf("};\n")
}

func (e *Emitter) writeParserCtorDtor(out *lineWriter) {
	e.funcBreak(out)
	out.printf("%s::%s( void )\n", e.name, e.name)
	out.printf("    : myImplementation( new %s )\n{\n}\n", e.pimpl)

	e.funcBreak(out)
	out.printf("%s::~%s( void )\n{\n}\n", e.name, e.name)

	e.funcBreak(out)
	out.printf("void %s::parse( %s::Terminal tok, %s%s )\n{\n", e.name, e.name, e.tokenParam(), e.extraArg)
	out.printf("    myImplementation->parse( tok, value")
	if e.extraArgCall != "" {
		out.printf(", %s", e.extraArgCall)
	}
	out.printf(" );\n}\n")
}

func (e *Emitter) writeImplClassCtorDtor(out *lineWriter) {
	e.funcBreak(out)
	out.printf("%s::%s( void )\n", e.pimpl, e.pimpl)
	out.printf("    : myErrCount( -1 )\n{\n    initTables();\n}\n")

	e.funcBreak(out)
	out.printf("%s::~%s( void )\n{\n", e.pimpl, e.pimpl)
	out.printf("    while ( ! myStack.empty() )\n        popStack();\n}\n")
}

func (e *Emitter) writeMainParserFunc(out *lineWriter) {
	e.funcBreak(out)
	out.printf("void %s::parse( %s::Terminal tok, %s%s )\n{\n", e.pimpl, e.name, e.tokenParam(), e.extraArg)
	out.printf("    int actVal;\n")
	out.printf("    ParserAct action;\n")
	out.printf("    bool errHit = false;\n")
	out.printf("    bool eoInput = (tok == %s::%sEOF );\n", e.name, e.prefix)
	out.printf("    bool done = false;\n\n")
	out.printf("    if ( myStack.empty() )\n    {\n")
	out.printf("        if ( eoInput )\n            return;\n\n")
	out.printf("        myErrCount = -1;\n    }\n\n")
	out.printf("    %s data( value );\n\n", e.anyType())
	out.printf("    do\n    {\n")
	out.printf("        action = findParserAction( actVal, tok );\n")
	out.printf("        if ( PA_SHIFT == action )\n        {\n")
	out.printf("            shift( actVal, tok, data );\n")
	out.printf("            --myErrCount;\n")
	out.printf("            if ( eoInput && ! myStack.empty() )\n")
	out.printf("                tok = %s::%sEOF;\n", e.name, e.prefix)
	out.printf("            else\n                done = true;\n")
	out.printf("        }\n")
	out.printf("        else if ( PA_REDUCE == action )\n        {\n")
	if e.extraArgCall != "" {
		out.printf("            reduce( actVal, %s );\n", e.extraArgCall)
	} else {
		out.printf("            reduce( actVal );\n")
	}
	out.printf("        }\n")
	out.printf("        else if ( PA_ERROR == action )\n        {\n")
	e.emitErrorHandling(out)
	out.printf("        }\n")
	out.printf("        else // ACCEPT == action || NOP == action\n        {\n")
	if e.isValueSet("parse_accept") {
		if e.extraArgCall != "" {
			out.printf("            accept( %s );\n", e.extraArgCall)
		} else {
			out.printf("            accept();\n")
		}
	}
	out.printf("            done = true;\n")
	out.printf("        }\n")
	out.printf("    } while ( ! done && ! myStack.empty() );\n}\n")
}

// emitErrorHandling writes the PA_ERROR branch of the parse loop: the
// same pop-until-error-shifts recovery the Lemon family uses.
func (e *Emitter) emitErrorHandling(out *lineWriter) {
	const indent = "            "
	errIdx := e.symIndex["error"]

	out.printf("%s// Syntax error handling:\n", indent)
	out.printf("%s// 1. Call the %%syntax_error function.\n", indent)
	out.printf("%s// 2. Pop stack until a state where we can shift the err symbol.\n", indent)
	out.printf("%s// 3. Shift the error symbol.\n", indent)
	out.printf("%s// 4. Set error count to three.\n", indent)
	out.printf("%s// 5. Begin accepting and shifting new tokens.\n", indent)
	out.printf("%s// 6. No new error processing will begin until 3 tokens are successful.\n", indent)
	out.printf("%sif ( myErrCount < 0 )\n%s{\n", indent, indent)
	out.printf("%s    syntaxError( tok, data", indent)
	if e.extraArgCall != "" {
		out.printf(", %s", e.extraArgCall)
	}
	out.printf(" );\n%s}\n", indent)
	out.printf("%sif ( myStack.top().first.first == %d || errHit )\n%s{\n", indent, errIdx, indent)
	out.printf("%s    callDtor( static_cast<int>(tok), data );\n", indent)
	out.printf("%s    done = true;\n%s}\n", indent, indent)
	out.printf("%selse\n%s{\n", indent, indent)
	out.printf("%s    while ( ! myStack.empty() &&\n", indent)
	out.printf("%s            myStack.top().first.first != %d )\n", indent, errIdx)
	out.printf("%s    {\n", indent)
	out.printf("%s        action = findParserAction( actVal, %d );\n", indent, errIdx)
	out.printf("%s        if ( action == PA_SHIFT )\n", indent)
	out.printf("%s            break;\n", indent)
	out.printf("%s        popStack();\n", indent)
	out.printf("%s    }\n", indent)
	out.printf("%s    if ( myStack.empty() || tok == %s::%sEOF )\n", indent, e.name, e.prefix)
	out.printf("%s    {\n", indent)
	out.printf("%s        callDtor( static_cast<int>(tok), data );\n", indent)
	out.printf("%s        parseFailed(", indent)
	if e.extraArgCall != "" {
		out.printf(" %s ", e.extraArgCall)
	}
	out.printf(");\n")
	out.printf("%s        done = true;\n", indent)
	out.printf("%s    }\n", indent)
	out.printf("%s    else if ( myStack.top().first.first != %d )\n", indent, errIdx)
	out.printf("%s    {\n", indent)
	out.printf("%s        data = static_cast<void *>(0);\n", indent)
	out.printf("%s        shift( actVal, %d, data );\n", indent, errIdx)
	out.printf("%s    }\n", indent)
	out.printf("%s}\n", indent)
	out.printf("%smyErrCount = 3;\n", indent)
	out.printf("%serrHit = true;\n", indent)
}

func (e *Emitter) writeShiftFunc(out *lineWriter) {
	e.funcBreak(out)
	out.printf("void %s::shift( int newState, int symIdx, const %s &data )\n{\n", e.pimpl, e.anyType())
	if e.debug {
		out.printf("    std::cout << \"SHIFT to state \" << newState << std::endl;\n")
	}
	out.printf("    StackEntry newItem = StackEntry( StackID( newState, symIdx ), %s( data ) );\n", e.anyType())
	out.printf("    myStack.push( newItem );\n}\n")
}

func (e *Emitter) writeReduceFunc(out *lineWriter) {
	rules := e.view.Rules()

	e.funcBreak(out)
	out.printf("void %s::reduce( int ruleNum%s )\n{\n", e.pimpl, e.extraArg)
	if e.debug {
		out.printf("    std::cout << \"REDUCE rule \" << ruleNum << std::endl;\n")
	}
	out.printf("    int newVal;\n")
	out.printf("    ParserAct next;\n")
	out.printf("    %s data;\n", e.anyType())
	out.printf("    std::vector< %s > rhsData;\n\n", e.anyType())
	out.printf("    rhsData.reserve( myRules[ruleNum].second );\n")
	out.printf("    for ( int i = 0, N = myRules[ruleNum].second; i != N; ++i )\n    {\n")
	out.printf("        if ( myStack.empty() )\n")
	out.printf("            rhsData.insert( rhsData.begin(), data );\n")
	out.printf("        else\n        {\n")
	out.printf("            rhsData.insert( rhsData.begin(), myStack.top().second );\n")
	out.printf("            myStack.pop();\n        }\n    }\n\n")
	out.printf("    next = findParserAction( newVal, myRules[ruleNum].first );\n\n")
	out.printf("    switch ( ruleNum )\n    {\n")

	for _, r := range rules {
		out.printf("        case %d:\n        {\n", r.Index)
		out.printf("            // %s\n", ruleText(r))
		e.emitRule(out, r)
		out.printf("            break;\n        }\n\n")
	}

	out.printf("        default:\n")
	out.printf("            throw \"Unknown Rule Number\";\n")
	out.printf("            break;\n    }\n\n")
	out.printf("    if ( PA_SHIFT == next )\n")
	out.printf("        shift( newVal, myRules[ruleNum].first, data );\n")
	if e.isValueSet("parse_accept") {
		out.printf("    else\n")
		if e.extraArgCall != "" {
			out.printf("        accept( %s );\n", e.extraArgCall)
		} else {
			out.printf("        accept();\n")
		}
	}
	out.printf("}\n")
}

func ruleText(r emit.RuleView) string {
	var b strings.Builder
	b.WriteString(r.LHS)
	b.WriteString(" ::=")
	for _, entry := range r.RHS {
		b.WriteString(" ")
		b.WriteString(entry.Name)
	}
	b.WriteString(" .")
	return b.String()
}

// emitRule writes the body of one reduce case: the user's action code
// with its aliases substituted for any-casts into the value stack, then
// destructor calls for every unaliased RHS value.
func (e *Emitter) emitRule(out *lineWriter, r emit.RuleView) {
	code := r.Code
	codeLine := r.CodeLine
	for len(code) > 0 && (code[0] == ' ' || code[0] == '\t' || code[0] == '\n') {
		if code[0] == '\n' {
			codeLine++
		}
		code = code[1:]
	}

	if code != "" {
		lhsType := e.dataType(r.LHS)
		code = substCode(code, r.LHSAlias, e.anyCast(lhsType, "data"), true, lhsType)
		for i, entry := range r.RHS {
			code = substCode(code, entry.Alias,
				e.anyCast(e.dataType(entry.Name), fmt.Sprintf("rhsData[%d]", i)), false, "")
		}

		e.lineInfo(out, e.sourceName, codeLine)
		for _, line := range strings.Split(strings.TrimRight(code, " \t"), "\n") {
			out.printf("            %s\n", line)
		}
		e.lineInfo(out, e.outName, out.line+1)
	}

	for i, entry := range r.RHS {
		if entry.Alias == "" {
			out.printf("            callDtor( %d, rhsData[%d] );\n", e.symIndex[entry.Name], i)
		}
	}
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// substCode replaces whole-word occurrences of an alias in action code
// with its value-stack access expression. For the LHS alias, a plain
// assignment "alias = expr" becomes "data = (Type)expr" so the reduced
// value lands back on the stack.
func substCode(code, name, repl string, lhs bool, lhsType string) string {
	if name == "" {
		return code
	}

	pos := 0
	for {
		i := strings.Index(code[pos:], name)
		if i < 0 {
			break
		}
		i += pos
		end := i + len(name)
		if (i > 0 && isWordByte(code[i-1])) || (end < len(code) && isWordByte(code[end])) {
			pos = i + 1
			continue
		}

		if lhs {
			cp := end
			for cp < len(code) && (code[cp] == ' ' || code[cp] == '\t' || code[cp] == '\n') {
				cp++
			}
			if cp < len(code) && code[cp] == '=' && (cp+1 >= len(code) || code[cp+1] != '=') {
				realRepl := "data = (" + lhsType + ")"
				code = code[:i] + realRepl + code[cp+1:]
				pos = i + len(realRepl)
				continue
			}
		}

		code = code[:i] + repl + code[end:]
		pos = i + len(repl)
	}

	return code
}

func (e *Emitter) writeAcceptFunc(out *lineWriter) {
	if !e.isValueSet("parse_accept") {
		return
	}

	e.funcBreak(out)
	if e.extraArg == "" {
		out.printf("void %s::accept( void )\n{\n", e.pimpl)
	} else {
		out.printf("void %s::accept( %s )\n{\n", e.pimpl, strings.TrimPrefix(e.extraArg, ", "))
	}
	e.emitValue(out, "parse_accept")
	out.printf("}\n")
}

// writeDestructorHandler writes callDtor: a switch over symbol indices
// running %token_destructor for terminals and each nonterminal's
// %destructor for its own index.
func (e *Emitter) writeDestructorHandler(out *lineWriter) {
	e.funcBreak(out)
	out.printf("void %s::callDtor( int symIdx, %s &data )\n{\n", e.pimpl, e.anyType())
	out.printf("    switch ( symIdx )\n    {\n")

	out.printf("        case 0:\n")
	for _, s := range e.terminals() {
		out.printf("        case %d:\n", s.Index)
	}
	tokenDtor, _ := e.view.Option("token_destructor")
	if tokenDtor != "" {
		out.printf("            %s\n", strings.ReplaceAll(tokenDtor, "$$", e.anyCast(e.tokenType, "data")))
	}
	out.printf("            break;\n")

	for _, s := range e.symbols {
		if s.IsTerminal || s.Destructor == "" || isInternalSymbol(s.Name) {
			continue
		}
		out.printf("        case %d:\n", s.Index)
		out.printf("            %s\n", strings.ReplaceAll(s.Destructor, "$$", e.anyCast(s.DataType, "data")))
		out.printf("            break;\n")
	}

	out.printf("        default:\n")
	out.printf("            break;\n    }\n}\n")
}

func (e *Emitter) writeParserUtil(out *lineWriter) {
	e.funcBreak(out)
	out.printf("void %s::popStack( void )\n{\n", e.pimpl)
	out.printf("    callDtor( myStack.top().first.second, myStack.top().second );\n")
	out.printf("    myStack.pop();\n}\n")

	e.funcBreak(out)
	out.printf("ParserAct %s::findParserAction( int &newVal, int tok )\n{\n", e.pimpl)
	out.printf("    int stateNum;\n")
	out.printf("    ParserAct retval = PA_NOP;\n")
	out.printf("    bool found = false;\n\n")
	out.printf("    stateNum = myStack.empty() ? 0 : myStack.top().first.first;\n")
	out.printf("    ActionMap::iterator i = myStates[stateNum].find( tok );\n")
	out.printf("    if ( tok >= 0 && tok <= %d )\n    {\n", len(e.symbols))
	out.printf("        if ( i != myStates[stateNum].end() )\n        {\n")
	out.printf("            retval = (*i).second.first;\n")
	out.printf("            newVal = (*i).second.second;\n")
	out.printf("            found = true;\n        }\n    }\n")
	out.printf("    else if ( ! myStates[stateNum].empty() )\n    {\n")
	out.printf("        retval = PA_NOP;\n")
	out.printf("        newVal = 0;\n")
	out.printf("        found = true;\n    }\n\n")
	out.printf("    if ( ! found )\n    {\n")
	out.printf("        retval = myStateDefaultActions[stateNum].first;\n")
	out.printf("        newVal = myStateDefaultActions[stateNum].second;\n    }\n")
	out.printf("    return retval;\n}\n")

	e.funcBreak(out)
	e.writeStateTable(out)
	e.writeRuleTable(out)

	e.funcBreak(out)
	out.printf("void %s::initTables( void )\n{\n", e.pimpl)
	e.buildStateTable(out)
	e.buildRuleTable(out)
	out.printf("}\n")
}

type stateRow struct {
	state     int
	lookahead int // symbol index, or -1 for the state's default action
	act       string
	target    int
}

// stateRows flattens the action lists into the 4-int rows the generated
// initTables loop consumes: {state, lookahead, action, target}. Default
// actions are keyed -1; conflict entries never reach the runtime table.
func (e *Emitter) stateRows() []stateRow {
	var rows []stateRow
	for _, st := range e.view.States() {
		for _, a := range st.Actions {
			row := stateRow{state: st.Index}

			if a.Lookahead == "{default}" {
				row.lookahead = -1
			} else {
				row.lookahead = e.symIndex[a.Lookahead]
			}

			switch a.Kind {
			case "shift":
				row.act, row.target = "PA_SHIFT", a.ShiftState
			case "reduce":
				row.act, row.target = "PA_REDUCE", a.ReduceRule
			case "accept":
				row.act, row.target = "PA_ACCEPT", 0
			case "error":
				row.act, row.target = "PA_ERROR", -2
			default:
				continue
			}

			rows = append(rows, row)
		}
	}
	return rows
}

func (e *Emitter) writeStateTable(out *lineWriter) {
	rows := e.stateRows()

	out.printf("static int theStateTable[%d][4] =\n{\n", len(rows))
	for _, row := range rows {
		if row.lookahead == -1 {
			out.printf("    // State %d default action\n", row.state)
		} else {
			out.printf("    // State %d\n", row.state)
		}
		out.printf("    { %d, %d, %s, %d },\n", row.state, row.lookahead, row.act, row.target)
	}
	out.printf("};\n")
}

func (e *Emitter) buildStateTable(out *lineWriter) {
	nState := len(e.view.States())
	nTotal := len(e.stateRows())

	out.printf("    myStates.assign( %d, ActionMap() );\n", nState)
	out.printf("    myStateDefaultActions.assign( %d, ActionEntry(PA_ERROR,-2) );\n", nState)
	out.printf("    for ( int i = 0; i < %d; ++i )\n    {\n", nTotal)
	out.printf("        if ( theStateTable[i][1] == -1 )\n")
	out.printf("            myStateDefaultActions[theStateTable[i][0]] = ActionEntry((ParserAct)theStateTable[i][2], theStateTable[i][3]);\n")
	out.printf("        else\n")
	out.printf("            myStates[theStateTable[i][0]][theStateTable[i][1]] = ActionEntry((ParserAct)theStateTable[i][2], theStateTable[i][3]);\n")
	out.printf("    }\n")
}

func (e *Emitter) writeRuleTable(out *lineWriter) {
	rules := e.view.Rules()

	out.printf("\n\nstatic int theRuleTable[%d][2] =\n{\n", len(rules))
	for _, r := range rules {
		out.printf("    // %s\n", ruleText(r))
		out.printf("    { %d, %d },\n", e.symIndex[r.LHS], len(r.RHS))
	}
	out.printf("};\n")
}

func (e *Emitter) buildRuleTable(out *lineWriter) {
	out.printf("\n    // Rule Table\n\n")
	out.printf("    myRules.reserve( %d );\n", len(e.view.Rules()))
	out.printf("    for ( int i = 0; i < %d; ++i )\n", len(e.view.Rules()))
	out.printf("        myRules.push_back( RuleInfo( theRuleTable[i][0], theRuleTable[i][1] ) );\n")
}

func (e *Emitter) writeErrorRoutines(out *lineWriter) {
	e.funcBreak(out)
	out.printf("void %s::syntaxError( %s::Terminal tok, const %s &data%s )\n{\n",
		e.pimpl, e.name, e.anyType(), e.extraArg)
	if e.debug {
		out.printf("    std::cout << \"SYNTAX ERROR with token \" << tok << std::endl;\n")
	}
	if se, ok := e.view.Option("syntax_error"); ok && se != "" {
		if strings.Contains(se, "TOKEN") {
			tokT := e.tokenType
			if tokT == "" {
				tokT = "void *"
			}
			sep := " "
			if strings.HasSuffix(tokT, "*") || strings.HasSuffix(tokT, "&") {
				sep = ""
			}
			out.printf("    const %s%sTOKEN = %s;\n", tokT, sep, e.anyCast("const "+tokT, "data"))
		}
		out.printf("%s\n", se)
	}
	out.printf("}\n")

	e.funcBreak(out)
	if e.extraArg == "" {
		out.printf("void %s::parseFailed( void )\n{\n", e.pimpl)
	} else {
		out.printf("void %s::parseFailed( %s )\n{\n", e.pimpl, strings.TrimPrefix(e.extraArg, ", "))
	}
	if e.debug {
		out.printf("    std::cout << \"PARSE FAILURE\" << std::endl;\n")
	}
	e.emitValue(out, "parse_failure")
	out.printf("}\n")
}

func (e *Emitter) isValueSet(name string) bool {
	v, ok := e.view.Option(name)
	return ok && v != ""
}
