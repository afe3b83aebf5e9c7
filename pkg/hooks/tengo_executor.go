package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/glorpus-work/emulatorx/pkg/errors"
)

// scriptModules are the stdlib modules hook scripts may import.
var scriptModules = []string{"fmt", "os", "text", "times", "json"}

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the script registered for hookType. A missing script is a no-op.
// Scripts report failure by declaring a non-empty err variable.
func (e *TengoExecutor) Execute(ctx context.Context, hookType HookType, hctx Context) error {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap(scriptModules...))

	vars := map[string]interface{}{
		"packageName":    hctx.PackageName,
		"packageVersion": hctx.PackageVersion,
		"installPath":    hctx.InstallPath,
		"platform":       hctx.Platform,
	}
	for k, v := range hctx.Vars {
		vars[k] = v
	}
	for k, v := range vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	compiled, err := scriptInstance.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", hookType, errors.ErrHookExecution, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Object().(type) {
		case *tengo.Error:
			msg, _ := tengo.ToString(v.Value)
			return fmt.Errorf("%s: %w: %s", hookType, errors.ErrHookScript, msg)
		case *tengo.String:
			if v.Value != "" {
				return fmt.Errorf("%s: %w: %s", hookType, errors.ErrHookScript, v.Value)
			}
		}
	}
	return nil
}

// AddScript adds or updates a script for the specified hook type.
func (e *TengoExecutor) AddScript(hookType HookType, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}
