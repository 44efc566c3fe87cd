// Package defs holds the node-definition model shared by every phase:
// TypeDef records addressed by dense TypeIDs, their fields and variants,
// unresolved and resolved type references, markers and computed layouts.
package defs
