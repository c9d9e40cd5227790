package fixtures

import (
	_ "embed"
)

// ConfigTemplate is the commented default config written by devctl init.
//
//go:embed config/config.yaml.template
var ConfigTemplate []byte
