// Package analysis is a small reference host for the narrowing engine: a
// variable scope over the types package and a specifier that turns the
// conditions assertion predicates produce into refinements.
//
// It models only what those conditions need. Comparisons are refined on the
// truthy branch only, and intersections of unrelated classes collapse to
// never.
package analysis
