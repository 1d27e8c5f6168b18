/*
Package annotation parses annotation lines from Go doc comments.

An annotation is a `//` comment line whose text starts with "@" followed by a
Go expression. The head of the expression names a declaration that the type
checker can resolve; the rest is an optional invocation with literal
arguments.

# Syntax

	// @Handler
	// @Handler{name: "orders", memorySize: 128}
	// @annotations.Handler{name: "orders"}
	// @annotations.Handler(annotations.Options{name: "orders"})

The head must be followed by the end of the line or by "{", "(" or "[".
Lines like "@see Orders for details" are plain documentation.

Annotations are attached to type declarations and to the fields of struct
types and methods of interface types, exactly like doc comments.
*/
package annotation
