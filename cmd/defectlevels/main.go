// SPDX-License-Identifier: MIT

// Command defectlevels computes charge-transition diagrams from defect energy
// summaries.
//
//	defectlevels merge -o summary.yaml --chem-pots chem.yaml --cbm 6 info/*.yaml
//	defectlevels diagram summary.yaml --condition A
//	defectlevels envelope summary.yaml --condition A --defect Va_O1
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
