package translate

import (
	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// legacyRenames maps modern caller fields to their legacy wizard columns.
var legacyRenames = map[string]string{
	"universite": "uni_adi",
	"program":    "program_adi",
	"sehir":      "sehir_adi",
	"ucret":      "ucret_burs",
}

// legacyFields are wizard columns accepted as-is when the caller already
// uses the legacy spelling.
var legacyFields = map[string]bool{
	"uni_adi":     true,
	"program_adi": true,
	"sehir_adi":   true,
	"ucret_burs":  true,
	"puan_min":    true,
	"puan_max":    true,
}

// controlKeys are consumed by the dispatcher (result limiting, ranking
// centering) and never reach the provider.
var controlKeys = map[string]bool{
	"max_results": true,
	"siralama":    true,
	"sıralama":    true,
}

// legacyDefaults are generation-required defaults injected when absent from
// the caller payload. The associate-degree wizard refuses unbounded score
// queries, so it gets the full TYT score band.
var legacyDefaults = map[provider.Tier]provider.Params{
	provider.TierOnlisans: {
		"puan_min": 150.0,
		"puan_max": 560.0,
	},
}

// requiredNumeric marks numeric defaults that survive pruning even when
// zero-valued.
var requiredNumeric = map[string]bool{
	"page":     true,
	"puan_min": true,
	"puan_max": true,
}
