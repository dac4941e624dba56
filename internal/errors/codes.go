package errors

// Error codes for the fusion core. The numeric prefix groups codes by
// category: 1xx input validation, 2xx collaborators, 3xx internal.
const (
	// ErrCodeInvalidInput indicates a malformed match or result at the
	// deserialization boundary (missing field, negative similarity, NaN,
	// unknown modality).
	ErrCodeInvalidInput = "ERR_101_INVALID_INPUT"

	// ErrCodeInvalidConfig indicates a configuration value outside its
	// documented range that could not be clamped.
	ErrCodeInvalidConfig = "ERR_102_INVALID_CONFIG"

	// ErrCodeDirectoryUnavailable indicates the person directory
	// collaborator failed. Callers treat this as "no match", not fatal.
	ErrCodeDirectoryUnavailable = "ERR_201_DIRECTORY_UNAVAILABLE"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal = "ERR_301_INTERNAL"
)

// Category represents the error category.
type Category string

const (
	CategoryInput        Category = "Input"
	CategoryConfig       Category = "Config"
	CategoryCollaborator Category = "Collaborator"
	CategoryInternal     Category = "Internal"
)

// categoryFromCode derives the category from the code's numeric prefix.
func categoryFromCode(code string) Category {
	switch {
	case len(code) >= 7 && code[4] == '1':
		if code == ErrCodeInvalidConfig {
			return CategoryConfig
		}
		return CategoryInput
	case len(code) >= 7 && code[4] == '2':
		return CategoryCollaborator
	default:
		return CategoryInternal
	}
}
