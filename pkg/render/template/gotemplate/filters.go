package gotemplate

import (
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("cssvar") {
		_ = pongo2.RegisterFilter("cssvar", filterCSSVar)
	}
	if !pongo2.FilterExists("pagehref") {
		_ = pongo2.RegisterFilter("pagehref", filterPageHref)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterCSSVar turns a theme token name into a custom property name:
// "brand" becomes "--brand". Dots are not valid in property names.
func filterCSSVar(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	name := strings.TrimSpace(in.String())
	if name == "" {
		return pongo2.AsValue(""), nil
	}
	name = strings.TrimPrefix(name, "--")
	name = strings.ReplaceAll(name, ".", "-")
	return pongo2.AsValue("--" + name), nil
}

// filterPageHref formats a page key with the link pattern given as parameter.
// The pattern must contain "%s"; without one the key becomes a fragment.
func filterPageHref(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	key := strings.TrimSpace(in.String())
	pattern := ""
	if param != nil {
		pattern = param.String()
	}
	if !strings.Contains(pattern, "%s") {
		return pongo2.AsValue("#" + key), nil
	}
	return pongo2.AsValue(strings.Replace(pattern, "%s", key, 1)), nil
}
