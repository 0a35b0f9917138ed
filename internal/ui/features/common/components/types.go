// Package components holds the HTML components shared by console features.
package components

import (
	"encoding/json"
	"strings"
)

// Element ids patched by SSE handlers.
const (
	CreateClassSelectID = "object-creator-class"
	BrowseClassSelectID = "object-browser-class"
	ObjectResultsID     = "object-results"
	ToastsID            = "toasts"
)

// Tab identifiers, also used as the value of the $tab signal.
const (
	TabViewSchema   = "view-schema"
	TabCreateSchema = "create-schema"
	TabCreateObject = "create-object"
	TabQueryObjects = "query-objects"
)

var tabs = []struct{ id, label string }{
	{TabViewSchema, "View Schema 🔭"},
	{TabCreateSchema, "Create Schema 🏗️"},
	{TabCreateObject, "Create Data Object ✍"},
	{TabQueryObjects, "Query Schema Objects 🧐"},
}

// PageData is everything the console page renders on first load.
type PageData struct {
	Title       string
	IsDev       bool
	Ready       bool
	Schema      JSONView
	ClassNames  []string
	CreateClass string
	BrowseClass string
	Objects     JSONView
}

// JSONView is a JSON document to display, or the reason it is missing.
type JSONView struct {
	JSON  string
	Error string
}

// ToastKind selects the toast style.
type ToastKind string

// Toast kinds.
const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

func toastIcon(kind ToastKind) string {
	if kind == ToastError {
		return "🤦"
	}
	return "👏"
}

// pageSignals is the initial datastar signal set of the console page.
func pageSignals(d PageData) string {
	b, err := json.Marshal(map[string]any{
		"tab":         TabViewSchema,
		"schema":      "",
		"objclass":    d.CreateClass,
		"objbody":     "",
		"browseclass": d.BrowseClass,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// tabActive is true in datastar while tab id is selected.
func tabActive(id string) string {
	return "$tab === " + jsString(id)
}

// jsString quotes s as a single-quoted JS string literal for datastar expressions.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
