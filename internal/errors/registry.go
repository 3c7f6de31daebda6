package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

var registry = map[string]Template{
	// Configuration (S100-S119)

	"S100": {
		Category: CategoryConfig,
		Message:  "Invalid statekit.json",
		Detail:   "The statekit.json configuration file could not be parsed.",
		DocURL:   "https://statekit.dev/docs/errors/S100",
	},
	"S101": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://statekit.dev/docs/errors/S101",
	},
	"S102": {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
		Detail:   "The inspector address must be host:port with a port between 1 and 65535.",
		DocURL:   "https://statekit.dev/docs/errors/S102",
	},
	"S103": {
		Category: CategoryConfig,
		Message:  "Invalid preference backend",
		Detail:   "prefs.backend must be one of memory, file or s3.",
		DocURL:   "https://statekit.dev/docs/errors/S103",
	},

	// Documents (S120-S139)

	"S120": {
		Category: CategoryDocument,
		Message:  "Invalid document",
		Detail:   "The document is not valid JSON.",
		DocURL:   "https://statekit.dev/docs/errors/S120",
	},
	"S121": {
		Category: CategoryDocument,
		Message:  "Document must be a JSON object",
		Detail:   "Top-level documents are keyed containers. Wrap arrays and scalars in an object.",
		DocURL:   "https://statekit.dev/docs/errors/S121",
	},
	"S122": {
		Category: CategoryDocument,
		Message:  "Document not found",
		Detail:   "The document file does not exist or cannot be read.",
		DocURL:   "https://statekit.dev/docs/errors/S122",
	},

	// CLI (S140-S159)

	"S140": {
		Category: CategoryCLI,
		Message:  "Inspector failed",
		Detail:   "The inspector server stopped with an error.",
		DocURL:   "https://statekit.dev/docs/errors/S140",
	},
	"S141": {
		Category: CategoryCLI,
		Message:  "Preference store unavailable",
		Detail:   "The configured preference backend could not be opened.",
		DocURL:   "https://statekit.dev/docs/errors/S141",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
