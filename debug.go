package shell

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// logger is the package logger. It writes human-readable lines to stderr
// until replaced with SetLogger.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() *zerolog.Logger {
	return &logger
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("shell debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn().Int("depth", depth).Int("limit", debugMaxTreeDepth).
			Str("node", n.Name).Msg("tree depth exceeds limit")
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn().Int("children", len(n.children)).Int("limit", debugMaxChildCount).
			Str("node", n.Name).Msg("child count exceeds limit")
	}
}
