// Package templates holds the html/template email bodies.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
