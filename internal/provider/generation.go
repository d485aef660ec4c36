package provider

// Generation identifies which of the mutually exclusive provider API shapes
// a probe bound to. Exactly one is ever selected per process.
type Generation int

const (
	// GenerationNone means no provider installation was found.
	GenerationNone Generation = iota
	// GenerationModern is the unified local-search layout with typed records.
	GenerationModern
	// GenerationLegacyObject is the wizard-object layout.
	GenerationLegacyObject
	// GenerationLegacyModule is the wizard layout under per-submodule paths.
	GenerationLegacyModule
)

// String returns the generation name used in logs and health payloads.
func (g Generation) String() string {
	switch g {
	case GenerationModern:
		return "modern"
	case GenerationLegacyObject:
		return "legacy_object"
	case GenerationLegacyModule:
		return "legacy_module"
	default:
		return "none"
	}
}

// Legacy reports whether g requires legacy parameter translation.
func (g Generation) Legacy() bool {
	return g == GenerationLegacyObject || g == GenerationLegacyModule
}
