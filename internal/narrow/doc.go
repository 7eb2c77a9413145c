// Package narrow resolves calls to the Webmozart\Assert\Assert static API
// into type refinements for the code that follows the call.
//
// A call is first normalized: the nullOr and all prefixes are stripped and
// recorded as a Variant, and the remainder is looked up in the predicate
// catalog. The catalog entry rewrites the call into a logical condition
// which a TypeSpecifier turns into a refinement. Per-element calls reuse the
// refined type of the container as the new element type, and the three
// allNot assertions subtract a type from every element directly.
//
// Calls the engine does not understand, or whose arguments are not known
// precisely enough, produce an empty refinement. Only a dispatch mismatch
// inside the engine is reported as an error (see ErrInvariant).
package narrow
