// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
	"regexp"
	"strings"
)

// Style selects the markup flavour.
type Style int

const (
	StyleNone Style = iota
	StyleMpl
	StylePlotly
)

// String implements fmt.Stringer.
func (s Style) String() string {
	switch s {
	case StyleMpl:
		return "mpl"
	case StylePlotly:
		return "plotly"
	default:
		return "none"
	}
}

// ParseStyle maps "mpl", "plotly" and "" / "none" to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return StyleNone, nil
	case "mpl", "matplotlib":
		return StyleMpl, nil
	case "plotly":
		return StylePlotly, nil
	}

	return StyleNone, fmt.Errorf("label: unknown style %q", s)
}

const vacancy = "Va"

// siteRe splits a site into its element (or "i") and index parts.
var siteRe = regexp.MustCompile(`^([A-Za-z]+?)(\d*)$`)

// parts splits "Va_O1" into ("Va", "O", "1"). ok is false for other shapes.
func parts(name string) (in, site, index string, ok bool) {
	in, rest, found := strings.Cut(name, "_")
	if !found || in == "" || rest == "" {
		return "", "", "", false
	}
	m := siteRe.FindStringSubmatch(rest)
	if m == nil {
		return "", "", "", false
	}

	return in, m[1], m[2], true
}

// MplName renders name as matplotlib mathtext.
func MplName(name string) string {
	in, site, index, ok := parts(name)
	if !ok {
		return name
	}
	if in == vacancy {
		return fmt.Sprintf(`$V_{{\rm %s}%s}$`, site, index)
	}
	if site == "i" {
		return fmt.Sprintf(`${\rm %s}_{i%s}$`, in, index)
	}

	return fmt.Sprintf(`${\rm %s}_{{\rm %s}%s}$`, in, site, index)
}

// PlotlyName renders name with the HTML subset understood by plotly.
func PlotlyName(name string) string {
	in, site, index, ok := parts(name)
	if !ok {
		return name
	}
	if in == vacancy {
		return fmt.Sprintf("<i>V</i><sub>%s%s</sub>", site, index)
	}

	return fmt.Sprintf("%s<sub>%s%s</sub>", in, site, index)
}

// Name renders name in the given style.
func Name(name string, style Style) string {
	switch style {
	case StyleMpl:
		return MplName(name)
	case StylePlotly:
		return PlotlyName(name)
	default:
		return name
	}
}

// family strips the trailing site index: "Va_O1" -> "Va_O".
func family(name string) string {
	in, site, _, ok := parts(name)
	if !ok {
		return name
	}

	return in + "_" + site
}

// Sanitize renders names in style after dropping the site index of every name
// whose family has a single member. The result is parallel to names.
func Sanitize(names []string, style Style) []string {
	count := make(map[string]int, len(names))
	for _, n := range names {
		count[family(n)]++
	}

	out := make([]string, len(names))
	for i, n := range names {
		if f := family(n); count[f] == 1 {
			n = f
		}
		out[i] = Name(n, style)
	}

	return out
}

// SanitizeMap is Sanitize over map keys. Two keys that render identically
// are reported as an error.
func SanitizeMap[V any](in map[string]V, style Style) (map[string]V, error) {
	names := make([]string, 0, len(in))
	for k := range in {
		names = append(names, k)
	}
	labels := Sanitize(names, style)

	out := make(map[string]V, len(in))
	for i, k := range names {
		if _, dup := out[labels[i]]; dup {
			return nil, fmt.Errorf("label: %q collides with another name as %q", k, labels[i])
		}
		out[labels[i]] = in[k]
	}

	return out, nil
}
