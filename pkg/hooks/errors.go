package hooks

import (
	"github.com/glorpus-work/emulatorx/pkg/errors"
)

// ErrUnsupportedHookType is returned for hook types other than the ones listed in types.go.
func ErrUnsupportedHookType(hookType string) error {
	return errors.Wrapf(errors.ErrHookLoad, "unsupported hook type: %s", hookType)
}
