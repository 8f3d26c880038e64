package errors

import "sort"

// ErrorTemplate defines a registered error code.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var registry = map[string]ErrorTemplate{
	// Runtime (H001-H099)

	"H001": {
		Category:   CategoryRuntime,
		Message:    "Head client not found in context",
		Detail:     "Tags were registered with a context that carries no head client.",
		Suggestion: "Wrap the handler with middleware.Inject or call head.NewContext before registering tags.",
	},

	// Config (H100-H139)

	"H100": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No head.yaml was found in the given directory.",
		Suggestion: "Create head.yaml or pass --config with the file path.",
	},
	"H101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file is not valid YAML.",
	},
	"H102": {
		Category:   CategoryConfig,
		Message:    "Invalid server address",
		Detail:     "server.addr must have the form host:port.",
		Suggestion: `Use an address such as ":8080" or "127.0.0.1:8080".`,
	},
	"H103": {
		Category: CategoryConfig,
		Message:  "Invalid entry",
		Detail:   "Each entry needs an input mapping with at least one recognized field.",
	},
	"H104": {
		Category:   CategoryConfig,
		Message:    "Invalid metrics namespace",
		Detail:     "metrics.namespace must be a valid Prometheus name.",
		Suggestion: "Use letters, digits and underscores, starting with a letter.",
	},
	"H105": {
		Category:   CategoryConfig,
		Message:    "Config file already exists",
		Detail:     "headctl init will not replace an existing head.yaml.",
		Suggestion: "Use --force to overwrite it.",
	},

	// CLI (H140-H159)

	"H140": {
		Category: CategoryCLI,
		Message:  "Cannot read page",
		Detail:   "The HTML page could not be read.",
	},
	"H141": {
		Category: CategoryCLI,
		Message:  "Invalid HTML page",
		Detail:   "The page could not be parsed as HTML.",
	},
	"H142": {
		Category: CategoryCLI,
		Message:  "Cannot write output",
		Detail:   "The rendered output could not be written.",
	},
	"H143": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"H144": {
		Category:   CategoryCLI,
		Message:    "Invalid head input",
		Detail:     "The request body must be a JSON object of head fields.",
		Suggestion: `Send a body such as {"title": "Home"}.`,
	},
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Template returns the template for a code.
func Template(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
