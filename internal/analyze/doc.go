// Package analyze compiles Go source files and resolves identifiers against
// the resulting type information.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to produce a
// Program: the ordered set of requested source files, each carrying its
// syntax tree, its package and the type-checker's info. A Resolver answers
// symbol questions about that program:
//   - Lookup: resolve a (possibly package-qualified) identifier in a file scope
//   - Describe: name, doc comment and display type of an object
//   - Constructors: callable signatures that construct an object
//
// Compilation options are fixed (see DefaultOptions) so that two runs over the
// same files always see the same program.
package analyze
