// Package routepath stores canonical HTTP paths for the optimizer service.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                = "/"
	Health              = "/healthz"
	FormInput           = "/form/input"
	MultiSelectAdd      = "/form/multiselect/add"
	MultiSelectRemove   = "/form/multiselect/remove"
	TabSwitch           = "/tabs/switch"
	Submit              = "/submit"
	Language            = "/lang"
	DataPrefix          = "/data/"
	StaticPrefix        = "/static/"
	Stylesheet          = StaticPrefix + "app.css"
	Script              = StaticPrefix + "app.js"
	LanguageQueryKey    = "lang"
	ComponentListFile   = "component_data.csv"
	AugmentListFile     = "augment_data.csv"
	DefaultComponentCSV = DataPrefix + ComponentListFile
	DefaultAugmentCSV   = DataPrefix + AugmentListFile
)

// LanguageSwitch returns the language switch route for tag.
func LanguageSwitch(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Language
	}
	return Language + "?" + LanguageQueryKey + "=" + url.QueryEscape(tag)
}

// DataFile returns the route serving a CSV data file.
func DataFile(name string) string {
	return DataPrefix + url.PathEscape(strings.TrimSpace(name))
}
