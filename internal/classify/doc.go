// Package classify maps discovered capability interfaces to mockability
// categories.
//
// A curated, versioned registry holds the well-known embedded-hal trait names
// that host-side mock implementations exist for. Unknown names fail closed:
// they classify as Custom and non-mockable with a warning, rather than
// silently matching by shape. Classification is a pure function of the input
// record sequence and the registry; it mutates no shared state, so two runs
// over the same tree always produce the same derived mockable set.
package classify
