// Package predicate builds record selectors that compare one numeric
// attribute of a [collection.Group] against a threshold.
//
// The attribute is chosen at runtime from a closed table. The threshold is
// parsed from text as one of four numeric kinds, and a [Mode] picks
// less-than, equal or greater-than. A selector matches a group iff
// sign(attribute - threshold) equals the mode.
package predicate
