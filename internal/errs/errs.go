// Package errs separates user-facing configuration errors from internal
// defects. Configuration errors are returned up to the caller with the grid and
// location they refer to; defects panic through Invariant.
package errs

import (
	"errors"
	"fmt"
)

// ErrConfig matches every *ConfigError with errors.Is.
var ErrConfig = errors.New("configuration error")

// ConfigError describes an invalid simulation description.
type ConfigError struct {
	Grid  string // grid name, empty for simulation-wide problems
	Where string // instruction, surface or region the problem was found in
	Msg   string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Grid != "" && e.Where != "":
		return fmt.Sprintf("grid %q, %s: %s", e.Grid, e.Where, e.Msg)
	case e.Grid != "":
		return fmt.Sprintf("grid %q: %s", e.Grid, e.Msg)
	case e.Where != "":
		return fmt.Sprintf("%s: %s", e.Where, e.Msg)
	}
	return e.Msg
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Configf builds a *ConfigError.
func Configf(grid, where, format string, args ...interface{}) error {
	return &ConfigError{Grid: grid, Where: where, Msg: fmt.Sprintf(format, args...)}
}

// Violation is the panic value raised by Invariant.
type Violation struct {
	Msg string
}

func (v Violation) Error() string { return "invariant violated: " + v.Msg }

// Invariant panics with a Violation when cond is false.
func Invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(Violation{Msg: fmt.Sprintf(format, args...)})
	}
}
