/*
Lime reads a grammar file describing a context-free grammar with
embedded semantic actions and generates a deterministic bottom-up
(LALR(1)-style) parsing automaton as source code in the target language.

Usage:

	lime [flags] grammar-file

The flags are:

	-b, --basis
		Print only the basis configurations in the .out report, omitting
		the closure.

	-n, --no-compress
		Skip default-reduce table compression.

	-g, --grammar-no-actions
		Reprint the grammar without the actions; produces no parser
		output.

	-l, --lang LANG
		Select the output language: "c" (default), "c++", or "z".

	-d, --debug
		Emit debug traces in the generated parser.

	-v, --verbose
		Produce a ".out" human-readable report alongside the generated
		parser.

	-s, --stats
		Print state/conflict statistics to stdout.

	-o, --output-dir DIR
		Directory to write generated files to. Defaults to the grammar
		file's own directory.

	-t, --timeout DURATION
		Abort processing after this long (0, the default, disables the
		timeout).

	-V, --version
		Give the current version of lime and then exit.

Exit status is the number of unresolved parsing conflicts found (0 means
conflict-free), 1 on a usage or fatal grammar error, and 2 on a command
line argument error.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/emit/emitc"
	"github.com/kdt3rd/lime/internal/emit/emitcpp"
	"github.com/kdt3rd/lime/internal/engine"
	"github.com/kdt3rd/lime/internal/limerrors"
	"github.com/kdt3rd/lime/internal/surface"
	"github.com/kdt3rd/lime/internal/version"
)

const (
	// ExitUsageOrFatal indicates a usage problem or a fatal grammar error.
	ExitUsageOrFatal = 1

	// ExitArgError indicates a command-line argument error.
	ExitArgError = 2
)

var (
	returnCode int

	flagBasis       = pflag.BoolP("basis", "b", false, "report prints basis configurations only")
	flagNoCompress  = pflag.BoolP("no-compress", "n", false, "skip default-reduce table compression")
	flagGrammarOnly = pflag.BoolP("grammar-no-actions", "g", false, "reprint the grammar only, with no action tables")
	flagLang        = pflag.StringP("lang", "l", "c", "output language: c, c++, or z")
	flagDebug       = pflag.BoolP("debug", "d", false, "emit debug traces in the generated parser")
	flagVerbose     = pflag.BoolP("verbose", "v", false, "produce a .out report")
	flagStats       = pflag.BoolP("stats", "s", false, "print state/conflict statistics to stdout")
	flagOutputDir   = pflag.StringP("output-dir", "o", "", "output directory (defaults to the grammar file's directory)")
	flagTimeout     = pflag.DurationP("timeout", "t", 0, "cancel processing after this long (0 disables the timeout)")
	flagVersion     = pflag.BoolP("version", "V", false, "give the current version of lime and then exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("lime version %s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "USAGE: lime [flags] grammar-file")
		returnCode = ExitArgError
		return
	}

	sourceFile := pflag.Arg(0)

	gen := engine.NewGenerator(sourceFile)
	gen.OutputDir = *flagOutputDir
	gen.BasisOnly = *flagBasis
	gen.Language = *flagLang
	gen.Debug = *flagDebug

	p := surface.NewParser(gen)
	if err := p.ParseFile(sourceFile); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageOrFatal
		return
	}

	loggedDiagnostics := 0
	logNewDiagnostics := func() {
		all := gen.Errors.Diagnostics()
		for _, d := range all[loggedDiagnostics:] {
			log.Printf("%s: %s", levelPrefix(d.Severity), d.Error())
		}
		loggedDiagnostics = len(all)
	}

	logNewDiagnostics()
	if gen.Errors.HasErrors() {
		returnCode = ExitUsageOrFatal
		return
	}

	if gen.RuleTable.Count() == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %s: empty grammar\n", sourceFile)
		returnCode = ExitUsageOrFatal
		return
	}

	if *flagGrammarOnly {
		fmt.Print(emit.Reprint(gen))
		if *flagStats {
			printStats(gen)
		}
		return
	}

	ctx := context.Background()
	if *flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flagTimeout)
		defer cancel()
	}

	if err := gen.Process(ctx, !*flagNoCompress); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageOrFatal
		return
	}

	logNewDiagnostics()
	if gen.Errors.HasErrors() {
		returnCode = ExitUsageOrFatal
		return
	}

	for _, msg := range gen.Errors.ConflictMessages() {
		fmt.Println(msg)
	}

	if *flagStats {
		printStats(gen)
	}

	if *flagVerbose {
		if err := writeFile(gen.OutputPath("out"), emit.Report(gen, gen.BasisOnly)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitUsageOrFatal
			return
		}
	}

	if err := emitParser(gen); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageOrFatal
		return
	}

	if n := gen.NumConflicts(); n > 0 {
		fmt.Printf("%d parsing conflicts.\n", n)
	}
	returnCode = gen.NumConflicts()
}

func printStats(gen *engine.Generator) {
	nt := gen.SymbolTable.TerminalCount()
	ns := gen.SymbolTable.Count()

	entries := 0
	for _, st := range gen.States() {
		for _, a := range st.Actions {
			if a.Kind != "conflict" {
				entries++
			}
		}
	}

	fmt.Printf("Grammar statistics: %d terminals, %d nonterminals, %d rules\n",
		nt, ns-nt, gen.RuleTable.Count())
	fmt.Printf("                    %d states, %d parser table entries, %d conflicts\n",
		gen.StateTable.Count(), entries, gen.NumConflicts())
}

// emitParser dispatches to the concrete backend for gen.Language: a
// capability lookup by language name rather than a class hierarchy.
func emitParser(gen *engine.Generator) error {
	switch gen.Language {
	case "c":
		e := emitc.New(gen)
		if err := writeTo(gen.OutputPath("h"), e.WriteHeader); err != nil {
			return err
		}
		return writeTo(gen.OutputPath("c"), e.Write)

	case "c++", "z":
		dialect := emitcpp.Std
		if gen.Language == "z" {
			dialect = emitcpp.Zion
		}
		e := emitcpp.New(gen, dialect)
		if err := writeTo(gen.OutputPath("h"), e.WriteHeader); err != nil {
			return err
		}
		return writeTo(gen.OutputPath("cpp"), e.Write)

	default:
		return limerrors.Internal("unknown emitter language %q", gen.Language)
	}
}

func writeTo(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render(f)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func levelPrefix(sev limerrors.Severity) string {
	switch sev {
	case limerrors.Warning:
		return "WARN "
	case limerrors.Fatal:
		return "ERROR"
	default:
		return "ERROR"
	}
}
