package cli

import "time"

// Default values for CLI flags and formatted output.
const (
	// MaxDescriptionLength is the maximum length of a package description in listings.
	MaxDescriptionLength = 50
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// spinnerInterval is how often the spinner advances.
	spinnerInterval = 100 * time.Millisecond
	// spinnerType is the progressbar spinner style.
	spinnerType = 14
)
