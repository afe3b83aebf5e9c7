package fsutil

// File and directory permission constants.
const (
	FileModeDefault = 0o644 // -rw-r--r--: settings, extracted files without a recorded mode
	FileModeSecure  = 0o640 // -rw-r-----: staging archives
	FileModeExec    = 0o755 // -rwxr-xr-x

	DirModeDefault = 0o755 // drwxr-xr-x: install root and package directories
	DirModeSecure  = 0o750 // drwxr-x---: staging directory
)
