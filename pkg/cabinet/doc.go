// Package cabinet defines the cabinet configuration a cutlist is derived
// from: the option enums, the validated Config value type, the per-type
// default dimensions, door-count auto-derivation and the session Form that
// applies those rules as the user edits fields.
package cabinet
