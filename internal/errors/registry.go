package errors

import (
	"maps"
	"slices"
)

// Template is the registered shape of a code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Codes are grouped by category in blocks of twenty:
// E100 tree, E120 config, E140 snapshot, E160 server.
var registry = map[string]Template{
	"E100": {CategoryTree, "Invalid tree document",
		"The tree document is not valid JSON or does not match the node shape."},
	"E101": {CategoryTree, "Invalid node",
		"A node cannot carry both text and children."},
	"E102": {CategoryTree, "Unknown module",
		"The module name is not one of the built-in modules."},

	"E120": {CategoryConfig, "Config file unreadable",
		"The vtree.json file could not be read or parsed."},
	"E121": {CategoryConfig, "Config invalid",
		"The configuration contains an invalid value."},

	"E140": {CategorySnapshot, "Snapshot not found",
		"No snapshot is stored under this id."},
	"E141": {CategorySnapshot, "Snapshot backend failure",
		"The snapshot store could not complete the operation."},

	"E160": {CategoryServer, "Unknown session",
		"The session id is invalid or the session was closed."},
	"E161": {CategoryServer, "Request body too large",
		"The tree document exceeds the configured body limit."},
}

// Codes returns every registered code in ascending order.
func Codes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
