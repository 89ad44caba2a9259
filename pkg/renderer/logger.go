package renderer

import (
	"log"
	"os"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewDefaultLogger creates a logger writing timestamped lines to stderr
func NewDefaultLogger() core.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// NopLogger returns a logger that drops everything
func NopLogger() core.Logger {
	return discardLogger{}
}
