// Package token defines the lexical tokens of the AST definition language.
//
// The language is deliberately small: `type` and `enum` items, `@attributes`,
// generic type expressions (`Box<T>`, `Vec<T>`, `Option<T>`, `T?`) and
// integer/string literals used as attribute arguments and discriminants.
package token
