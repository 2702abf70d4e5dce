// SPDX-License-Identifier: MIT

// Package report renders diagrams and line sets for people and for tools.
//
// Formats:
//
//	text     aligned tables (text/tabwriter); excluded defects in red
//	yaml     the Doc tree, for plotting scripts
//	msgpack  the same tree in binary form
//
// The Doc types are plain data with no behaviour; they decouple the on-disk
// layout from the read-only types of the envelope and transition packages.
package report
