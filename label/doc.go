// SPDX-License-Identifier: MIT

// Package label turns defect names into presentation markup.
//
// Names follow the "<in>_<site>" convention: "Va_O1" is a vacancy on the first
// oxygen site, "Mg_i1" a magnesium interstitial at the first interstitial site,
// "Mg_O1" a magnesium substituting oxygen. Names that do not follow it are
// passed through unchanged.
//
// Styles:
//
//	StyleMpl     matplotlib mathtext, e.g. "$V_{{\rm O}1}$"
//	StylePlotly  HTML subset, e.g. "<i>V</i><sub>O1</sub>"
//	StyleNone    plain names
//
// Sanitize additionally drops the site index of a name that is the only member
// of its family, so a single "Va_Mg1" is labelled like "Va_Mg".
package label
