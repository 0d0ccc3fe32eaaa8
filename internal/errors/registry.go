package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryRender,
		Message:  "Render called while a render cycle is in progress",
		Detail:   "A render was started from inside a callback of another render on the same renderer. The shadow tree would be corrupted, so the nested call was rejected without mutating anything.",
	},
	"E102": {
		Category: CategoryRender,
		Message:  "Live tree rejected a mutation",
		Detail:   "The live tree returned an error while the reconciler was applying a change. The container may be partially updated.",
	},

	// ============================================
	// Fixture Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryFixture,
		Message:  "Fixture could not be parsed",
		Detail:   "The file is not valid YAML or JSON.",
	},
	"E202": {
		Category: CategoryFixture,
		Message:  "Fixture node is invalid",
		Detail:   "A node must be a string, a number, or a mapping with a tag field.",
	},

	// ============================================
	// Config Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Configuration file is invalid",
		Detail:   "patchwork.yaml or patchwork.json could not be decoded.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Configuration value out of range",
	},

	// ============================================
	// Snapshot Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategorySnapshot,
		Message:  "Snapshot could not be stored",
	},

	// ============================================
	// Server Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryServer,
		Message:  "Invalid preview frame",
		Detail:   "The websocket message is not a JSON object with a known type.",
	},
	"E502": {
		Category: CategoryServer,
		Message:  "Event target not found",
		Detail:   "No live node with that id is attached to the preview container.",
	},

	// ============================================
	// CLI Errors (E600-E699)
	// ============================================

	"E601": {
		Category: CategoryCLI,
		Message:  "Missing argument",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
