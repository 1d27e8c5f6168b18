// Package diagnostic provides structured, non-fatal findings of a
// collection pass.
//
// Key capabilities:
//   - Annotations parsed but not promoted to registry entries
//   - Member annotations without options
//   - Files requested but not compiled
package diagnostic
