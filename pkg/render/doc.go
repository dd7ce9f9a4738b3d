// Package render turns controller snapshots into a surface-neutral View and
// defines the Renderer contract that HTML and terminal surfaces implement.
//
// Project is pure: the same Snapshot and contract fields always yield the same
// View, so surfaces re-run it after every transition instead of patching
// output incrementally.
package render
