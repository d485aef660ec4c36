// Package translate converts caller parameters into the shape the active
// provider generation expects. The modern generation already speaks the
// caller vocabulary; legacy wizard generations need field renames, injected
// defaults, and pruning of empty values. The rules are data, not
// conditionals: see tables.go.
package translate

import (
	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// ForGeneration produces provider-ready parameters for the given generation
// and tier. Translation is deterministic and total: every caller field
// either maps to exactly one legacy field, is consumed as a control value by
// the dispatcher, or is silently ignored when the legacy generation has no
// equivalent. The result is freshly allocated; the input is never mutated.
func ForGeneration(gen provider.Generation, tier provider.Tier, params provider.Params) provider.Params {
	if !gen.Legacy() {
		return params.Clone()
	}

	out := make(provider.Params, len(params)+3)
	for key, val := range params {
		if controlKeys[key] {
			continue
		}
		if legacy, ok := legacyRenames[key]; ok {
			out[legacy] = val
			continue
		}
		if legacyFields[key] {
			out[key] = val
		}
		// No legacy equivalent: dropped.
	}

	for key, val := range legacyDefaults[tier] {
		if _, present := out[key]; !present {
			out[key] = val
		}
	}

	// Legacy wizards are paginated; the bridge always reads page 1.
	out["page"] = 1

	return Prune(out)
}

// Prune drops every key whose value is empty or falsy, keeping required
// numeric defaults. Pruning is idempotent: pruning pruned output yields the
// same mapping.
func Prune(params provider.Params) provider.Params {
	out := make(provider.Params, len(params))
	for key, val := range params {
		if requiredNumeric[key] {
			out[key] = val
			continue
		}
		if !falsy(val) {
			out[key] = val
		}
	}
	return out
}

// falsy mirrors the caller-side convention: empty strings, nil, false, and
// numeric zero carry no filter intent.
func falsy(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}
