// Package configs provides the embedded configuration template for
// clipsift. Embedding at build time keeps `clipsift config init` working
// in every distribution, source builds and binary releases alike.
package configs

import _ "embed"

// ConfigTemplate is the annotated default configuration, written by
// `clipsift config init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
