// Package provider defines the seam between the bridge and the YOKATLAS
// data provider. The provider's search algorithms and on-disk data are
// opaque; this package only names the shapes the bridge routes through.
package provider

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Tier selects the program tier an operation targets.
type Tier string

const (
	// TierLisans is the bachelor-degree tier.
	TierLisans Tier = "lisans"
	// TierOnlisans is the associate-degree tier.
	TierOnlisans Tier = "onlisans"
)

// Params is a caller-controlled, untyped parameter mapping.
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SearchOptions are the generation-agnostic controls a search accepts.
type SearchOptions struct {
	// SmartSearch enables fuzzy matching on text fields.
	SmartSearch bool
	// MaxResults bounds the rows a driver materializes.
	MaxResults int
	// ReturnFormatted asks for pre-formatted display text (modern only).
	ReturnFormatted bool
	// Siralama centers the result window at a target ranking; zero means
	// no ranking-centered sampling.
	Siralama int
}

// Result is the union of the three shapes a provider search can produce:
// a validated-record sequence, a plain row sequence, or pre-formatted
// display text.
type Result struct {
	// Rows are the provider rows. When Typed is true they follow the
	// modern record schema and are coerced downstream; otherwise they are
	// passed through as-is.
	Rows []map[string]any
	// Typed marks Rows as modern-schema records.
	Typed bool
	// Formatted is pre-formatted display text (modern, on request).
	Formatted string
	// TotalFound is the match count before any display truncation.
	TotalFound int
}

// Binding is a bound provider generation: search plus atlas detail fetch.
// FetchDetails is the only suspension point per invocation and is awaited to
// completion; the bridge imposes no timeout of its own (callers terminate a
// hung process externally).
type Binding interface {
	Generation() Generation
	Search(tier Tier, params Params, opts SearchOptions) (*Result, error)
	FetchDetails(ctx context.Context, tier Tier, programID string, year int) (map[string]any, error)
}

// Capability is the process-wide detection outcome. Set once at startup,
// read-only thereafter; every dispatch decision reads this value.
type Capability struct {
	Available  bool
	Generation Generation
	Binding    Binding // nil when Available is false
}

// ProgramInfo is the canonical typed program record.
type ProgramInfo struct {
	YopKodu        string  `json:"yop_kodu"`
	Universite     string  `json:"uni_adi"`
	Fakulte        string  `json:"fakulte,omitempty"`
	Program        string  `json:"program_adi"`
	Sehir          string  `json:"sehir_adi,omitempty"`
	UniversiteTuru string  `json:"universite_turu,omitempty"`
	UcretBurs      string  `json:"ucret_burs,omitempty"`
	OgretimTuru    string  `json:"ogretim_turu,omitempty"`
	PuanTuru       string  `json:"puan_turu,omitempty"`
	Kontenjan      int     `json:"kontenjan,omitempty"`
	TabanPuan      float64 `json:"taban_puan,omitempty"`
	TabanSiralama  int     `json:"taban_siralama,omitempty"`
}

// CoerceProgram coerces a raw provider row into the canonical record shape.
// Identifier and program name are required; the numeric fields tolerate the
// string forms older datasets carry.
func CoerceProgram(raw map[string]any) (ProgramInfo, error) {
	yop := stringField(raw, "yop_kodu")
	name := stringField(raw, "program_adi")
	if yop == "" {
		return ProgramInfo{}, fmt.Errorf("record has no yop_kodu")
	}
	if name == "" {
		return ProgramInfo{}, fmt.Errorf("record %s has no program_adi", yop)
	}

	return ProgramInfo{
		YopKodu:        yop,
		Universite:     stringField(raw, "uni_adi"),
		Fakulte:        stringField(raw, "fakulte"),
		Program:        name,
		Sehir:          stringField(raw, "sehir_adi"),
		UniversiteTuru: stringField(raw, "universite_turu"),
		UcretBurs:      stringField(raw, "ucret_burs"),
		OgretimTuru:    stringField(raw, "ogretim_turu"),
		PuanTuru:       stringField(raw, "puan_turu"),
		Kontenjan:      intField(raw, "kontenjan"),
		TabanPuan:      floatField(raw, "taban_puan"),
		TabanSiralama:  intField(raw, "taban_siralama"),
	}, nil
}

// Fold lowercases with Turkish casing rules so that İ/I compare equal to
// their dotted and dotless lowercase forms across dataset spellings.
func Fold(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

func floatField(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

func intField(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
