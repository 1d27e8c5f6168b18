// Package mapping turns serialized handler annotations into registry
// entries: one serverless function definition per handler.
//
// # Mapping rules
//
// For every top-level record whose annotation name is a configured handler
// annotation:
//
//  1. Parameters are flattened into an option bag (later keys win)
//  2. An empty bag fails with ErrMissingOptions, a bag without "name" fails
//     with ErrMissingName
//  3. The handler path is the source file relative to the project root,
//     extension replaced by "." + EntrySymbol (e.g. "orders/api.Handle")
//  4. Options are composed in this order, later layers winning:
//     configured defaults, {handler, name: "<service>-<stage>-<name>"},
//     annotation options except "name"
//  5. A name already present in the registry fails with ErrDuplicateName
//  6. Child records become the entry's Handlers, shallowly and unchecked
//
// Records of other annotations are never promoted to entries, and child
// records never become top-level entries even if their annotation is a
// handler annotation.
//
// # Example
//
//	// @Handler{name: "orders", memorySize: 128}
//	type Orders struct {
//		// @Route{path: "/orders"}
//		List Endpoint
//	}
//
// maps to
//
//	orders:
//	  handler: orders/api.Handle
//	  name: shop-dev-orders
//	  memorySize: 128
package mapping
