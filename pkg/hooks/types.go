// Package hooks runs user supplied Tengo scripts around package installation and removal.
package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PostInstall HookType = "post-install"
	PreRemove   HookType = "pre-remove"
)

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// Types returns every supported hook type.
func Types() []HookType {
	return []HookType{PostInstall, PreRemove}
}

// ParseType validates a hook type name.
func ParseType(s string) (HookType, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrUnsupportedHookType(s)
}

// Context contains the values exposed to hook scripts.
type Context struct {
	PackageName    string
	PackageVersion string
	DirKey         string
	InstallPath    string
	Platform       string
	Vars           map[string]interface{}
}
