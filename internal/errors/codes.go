// Package errors provides structured error handling for the YOKATLAS bridge.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Input errors (invocation arguments, parameter JSON)
//   - 2XX: Dependency errors (provider installation, capability probing)
//   - 3XX: Provider faults (search and detail-fetch failures)
//   - 4XX: Validation errors (required fields)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryInput indicates invocation input errors.
	CategoryInput Category = "INPUT"
	// CategoryDependency indicates provider-dependency errors.
	CategoryDependency Category = "DEPENDENCY"
	// CategoryProvider indicates faults raised by the provider during dispatch.
	CategoryProvider Category = "PROVIDER"
	// CategoryValidation indicates request validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Input errors (100-199)
	ErrCodeNoFunction    = "ERR_101_NO_FUNCTION"
	ErrCodeInvalidParams = "ERR_102_INVALID_PARAMS"

	// Dependency errors (200-299)
	ErrCodeModuleNotFound = "ERR_201_MODULE_NOT_FOUND"
	ErrCodeDatasetCorrupt = "ERR_202_DATASET_CORRUPT"

	// Provider faults (300-399)
	ErrCodeSearchFailed = "ERR_301_SEARCH_FAILED"
	ErrCodeFetchFailed  = "ERR_302_FETCH_FAILED"

	// Validation errors (400-499)
	ErrCodeMissingField    = "ERR_401_MISSING_FIELD"
	ErrCodeUnknownFunction = "ERR_402_UNKNOWN_FUNCTION"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryInput
	case '2':
		return CategoryDependency
	case '3':
		return CategoryProvider
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
