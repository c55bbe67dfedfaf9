package emit

import (
	"fmt"
	"strings"
)

// Reprint renders the grammar back out as source text: the symbol table
// with indices, then every rule in declaration order with its explicit
// precedence mark. Used by the --grammar-no-actions flag, which reprints
// the grammar instead of running the analysis pipeline.
func Reprint(v View) string {
	var b strings.Builder

	source, _ := v.Option("source_file")
	fmt.Fprintf(&b, "// Reprint of input file %q.\n// Symbols:\n", source)

	for _, sym := range v.Symbols() {
		fmt.Fprintf(&b, "// %d %s\n", sym.Index, sym.Name)
	}
	b.WriteString("\n")

	for _, r := range v.Rules() {
		b.WriteString(r.LHS)
		b.WriteString(" ::=")
		for _, entry := range r.RHS {
			b.WriteString(" ")
			b.WriteString(entry.Name)
		}
		b.WriteString(".")
		if r.Precedence != "" {
			fmt.Fprintf(&b, " [%s]", r.Precedence)
		}
		b.WriteString("\n")
	}

	return b.String()
}
