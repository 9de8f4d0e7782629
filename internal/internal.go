// Package internal holds the pieces shared by the command-line tools
// in cmd/ that don't belong in the public shpsched API.
package internal

import "github.com/shpsched/shpsched"

// quietLogger discards every message; it backs cmd/schedule's
// -q/--quiet flag so turning off engine logging doesn't require
// threading a nil through the engine.
type quietLogger struct{}

func (quietLogger) Debug(string)          {}
func (quietLogger) Debugf(string, ...any) {}
func (quietLogger) Info(string)           {}
func (quietLogger) Infof(string, ...any)  {}
func (quietLogger) Warn(string)           {}
func (quietLogger) Warnf(string, ...any)  {}

// Quiet is the shpsched.Logger cmd/schedule uses when run with its
// quiet flag set.
var Quiet shpsched.Logger = quietLogger{}

var _ shpsched.Logger = quietLogger{}
