package hsmsnap

import _ "embed"

// Version is the hsmsnap release version, read from the VERSION file at
// the module root.
//
//go:embed VERSION
var Version string
