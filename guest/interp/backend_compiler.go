//go:build nestvm_compiler

package interp

import (
	"github.com/colorfulnotion/nestvm/rvm"
)

const defaultBackend = rvm.BackendCompiler
