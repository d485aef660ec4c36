// Package configs provides the embedded configuration template for the
// bridge. The template is embedded at build time so `config init` works in
// every distribution, source builds included.
package configs

import _ "embed"

// ExampleConfig is the annotated yokatlas-bridge.yaml template.
//
//go:embed yokatlas-bridge.example.yaml
var ExampleConfig string
