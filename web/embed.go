// Package web bundles the console's HTML templates and browser assets into
// the binary.
package web

import "embed"

// Templates holds layouts, partials, full pages and the table fragments
// served to live search.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html templates/fragments/*.html
var Templates embed.FS

// Static holds console.js and console.css.
//
//go:embed static/js/*.js static/css/*.css
var Static embed.FS
