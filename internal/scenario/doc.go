// Package scenario checks narrowing behaviour described in YAML files.
//
// A scenario gives the types of some variables, one assertion call and the
// types expected after the call returned:
//
//	name: lists
//	scenarios:
//	  - name: allNotNull on a shape
//	    scope: {x: "array{0: string|null, 1: int}"}
//	    call: Assert::allNotNull($x)
//	    expect: {x: "array{0: string, 1: int}"}
//
// The Runner evaluates scenarios with the narrowing extension on top of the
// reference host in internal/analysis and reports every mismatch as an Issue.
package scenario
