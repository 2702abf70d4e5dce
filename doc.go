// Package defectlevels computes charge-transition diagrams of point defects.
//
// Every charge state q of a defect has a formation energy that is affine in the
// Fermi level ef:
//
//	E_q(ef) = base_energy + correction + q·ef
//
// The thermodynamically stable state at ef is the minimum over q, so the
// physically relevant object is the lower envelope of those lines over a
// closed Fermi-level window.
//
// What's inside?
//
//	energyline/   EnergyLine, validated DefectEnergy sets, raw-record merging
//	envelope/     exact lower-envelope solver and the CrossPointSet it returns
//	transition/   transition levels, stable charges, pinning levels
//	diagram/      concurrent aggregation of many defects over one window
//	summary/      persisted per-condition energy records (YAML, msgpack)
//	label/        matplotlib / plotly defect names
//	report/       text, YAML and msgpack writers; PNG / SVG plots
//	config/       TOML run configuration
//	cmd/defectlevels   command-line front end
//
// Quick example:
//
//	Va_O1 with charges 0, +1, +2 on [1, 6]:
//
//	     E
//	     │        ______  q=0
//	     │      /
//	     │    /  q=+2
//	     │  /
//	     └──────────────── ef
//	       1       5     6
//
//	d := energyline.MustNew("Va_O1", []int{0, 1, 2}, []float64{4, 2, -4}, []float64{2, 1, 0})
//	cp, _ := envelope.Solve(d.Lines(), 1, 6)
//	fmt.Println(cp.Charges()) // [2 0]
//
// Install:
//
//	go get github.com/katalvlaran/defectlevels
package defectlevels
