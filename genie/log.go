package genie

import (
	"github.com/rs/zerolog"

	"github.com/phanxgames/shell"
)

// logger returns the shell logger tagged for this package. It is looked up
// on each call so shell.SetLogger takes effect immediately.
func logger() *zerolog.Logger {
	l := shell.Logger().With().Str("component", "genie").Logger()
	return &l
}
