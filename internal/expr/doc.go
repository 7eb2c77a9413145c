// Package expr implements the logical expression tree that assertion
// predicates are rewritten into before they reach a type specifier.
//
// Expressions are immutable values. Call arguments appear as Var nodes (or
// literals when the call site passes one) and are shared between the
// assertion call and the synthesized condition, so that refinements keyed by
// an expression line up with the call's arguments.
//
// Supported node shapes:
//   - literals: int, string, bool, null
//   - variables
//   - function calls (is_int, count, array_key_exists, ...)
//   - identity and ordering comparisons
//   - boolean connectives and negation
//   - instanceof checks against a class name
package expr
