// Package cutlist derives the cut pieces of a cabinet from its
// configuration.
//
// Compute is a pure function of a validated cabinet.Config. It keeps full
// floating point precision; rounding happens only when a CutList is
// rendered into rows with Format, so a stored cutlist renders exactly like
// the live one it was taken from.
package cutlist
