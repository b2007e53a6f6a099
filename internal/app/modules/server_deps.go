package modules

import (
	"github.com/shepherd-cms/corepress/internal/api/handlers"
)

// NewServerDeps builds base server deps then lets each module contribute
// its own wiring (ADR-0013: manual DI, no Wire/Dig).
func NewServerDeps(mods []Module) handlers.ServerDeps {
	var deps handlers.ServerDeps
	for _, mod := range mods {
		if mod == nil {
			continue
		}
		mod.ContributeServerDeps(&deps)
	}
	return deps
}
