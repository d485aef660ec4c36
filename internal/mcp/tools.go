package mcp

import (
	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// HealthCheckArgs defines the input schema for the health_check tool (no parameters).
type HealthCheckArgs struct{}

// SearchArgs defines the input schema for both program search tools.
type SearchArgs struct {
	Universite     string  `json:"universite,omitempty" jsonschema:"university name to filter by, matched with Turkish-aware folding"`
	Program        string  `json:"program,omitempty" jsonschema:"program name to filter by, e.g. Bilgisayar Mühendisliği"`
	Sehir          string  `json:"sehir,omitempty" jsonschema:"city name to filter by"`
	Ucret          string  `json:"ucret,omitempty" jsonschema:"fee category: Ücretsiz, Ücretli, Burslu, %50 İndirimli"`
	PuanTuru       string  `json:"puan_turu,omitempty" jsonschema:"score type: SAY, EA, SÖZ, DİL, TYT"`
	OgretimTuru    string  `json:"ogretim_turu,omitempty" jsonschema:"education type: Örgün, İkinci Öğretim, Açıköğretim, Uzaktan"`
	UniversiteTuru string  `json:"universite_turu,omitempty" jsonschema:"university type: Devlet or Vakıf"`
	PuanMin        float64 `json:"puan_min,omitempty" jsonschema:"minimum base score"`
	PuanMax        float64 `json:"puan_max,omitempty" jsonschema:"maximum base score"`
	Siralama       int     `json:"siralama,omitempty" jsonschema:"student ranking to center results around; caps result count"`
	MaxResults     int     `json:"max_results,omitempty" jsonschema:"maximum number of programs to return, default 100"`
}

// DetailsArgs defines the input schema for both atlas detail tools.
type DetailsArgs struct {
	YopKodu string `json:"yop_kodu" jsonschema:"YÖP program code identifying the program"`
	Year    int    `json:"year" jsonschema:"atlas year to fetch, e.g. 2024"`
}

// params converts search arguments into dispatcher parameters. Zero-valued
// fields are omitted so they carry no filter intent.
func (a SearchArgs) params() provider.Params {
	p := provider.Params{}
	put := func(key, val string) {
		if val != "" {
			p[key] = val
		}
	}
	put("universite", a.Universite)
	put("program", a.Program)
	put("sehir", a.Sehir)
	put("ucret", a.Ucret)
	put("puan_turu", a.PuanTuru)
	put("ogretim_turu", a.OgretimTuru)
	put("universite_turu", a.UniversiteTuru)
	if a.PuanMin != 0 {
		p["puan_min"] = a.PuanMin
	}
	if a.PuanMax != 0 {
		p["puan_max"] = a.PuanMax
	}
	if a.Siralama != 0 {
		p["siralama"] = a.Siralama
	}
	if a.MaxResults != 0 {
		p["max_results"] = a.MaxResults
	}
	return p
}

// params converts detail arguments into dispatcher parameters.
func (a DetailsArgs) params() provider.Params {
	return provider.Params{
		"yop_kodu": a.YopKodu,
		"year":     a.Year,
	}
}
