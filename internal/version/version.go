// Package version contains information on the current version of lime.
// It is split from the main program so generated-file banners and the
// emitter templates can report it without importing cmd/lime.
package version

// Current is the string identifying the current version of lime, printed
// by the --version flag and stamped into every emitted parser's header
// comment.
const Current = "0.1.0"
