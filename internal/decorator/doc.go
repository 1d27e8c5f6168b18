// Package decorator turns annotated declarations of a compiled program into
// DecoratorRecord trees.
//
// Pipeline:
//  1. Walk the program's source files and yield every annotated type
//     declaration (grouped type declarations are transparent)
//  2. For each annotation, resolve its head through the type checker
//  3. Locate the invocation node (see InvocationRule) and extract its literal
//     key/value parameters
//  4. Recurse into annotated fields and interface methods of the declaration,
//     building the record's children
//
// Two behaviors are kept on purpose and are flagged as defects pending
// confirmation: parameters whose literal value is 0 or "" are dropped (see
// Retained), and by default the invocation is the first call or composite
// literal anywhere in the declaration, which is not necessarily the
// annotation's own (see InvocationDeclaration).
package decorator
