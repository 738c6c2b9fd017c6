package datastore

import (
	"strconv"
	"strings"
)

// Filters is the transient query state driving every derived view. An empty
// slice imposes no constraint; all active clauses are ANDed.
type Filters struct {
	Search                string   `json:"search"`
	CentrosGestores       []string `json:"centros_gestores"`
	Comunas               []string `json:"comunas"`
	Barrios               []string `json:"barrios"`
	Corregimientos        []string `json:"corregimientos"`
	Veredas               []string `json:"veredas"`
	FuentesFinanciamiento []string `json:"fuentes_financiamiento"`
	Periodos              []string `json:"periodos"`
	Estado                string   `json:"estado"`
}

// FilterMode selects how child collections relate to the project filter
type FilterMode int

const (
	// ModeIndependent filters each collection on its own fields
	ModeIndependent FilterMode = iota
	// ModeCascading restricts child collections to the bpins that survived
	// project-level filtering
	ModeCascading
)

func (m FilterMode) String() string {
	if m == ModeCascading {
		return "cascading"
	}
	return "independent"
}

// Mode reports which filtering strategy applies. Exactly five clauses are
// structural and flip the store into cascading mode; corregimientos, veredas
// and estado do not cascade. Product decision inherited from the dashboard,
// kept as-is.
func (f Filters) Mode() FilterMode {
	if len(f.CentrosGestores) > 0 || len(f.Comunas) > 0 || len(f.Barrios) > 0 ||
		len(f.FuentesFinanciamiento) > 0 || len(f.Periodos) > 0 {
		return ModeCascading
	}
	return ModeIndependent
}

// searchOnly strips the filter down to its search clause, used inside a
// cascade where structural clauses already acted at the project level
func (f Filters) searchOnly() Filters {
	return Filters{Search: f.Search}
}

// JSON field aliases per clause: the dataset generators never settled on one
// column name, so each clause checks the spellings seen in the wild
var (
	aliasesCentroGestor  = []string{"nombre_centro_gestor", "centro_gestor"}
	aliasesComuna        = []string{"comuna", "nombre_comuna"}
	aliasesBarrio        = []string{"barrio", "nombre_barrio"}
	aliasesCorregimiento = []string{"corregimiento", "nombre_corregimiento"}
	aliasesVereda        = []string{"vereda", "nombre_vereda"}
	aliasesFuente        = []string{"nombre_fondo", "clasificacion_fondo", "fuente_financiamiento"}
	aliasesPeriodo       = []string{"periodo_corte", "periodo"}
	aliasesEstado        = []string{"estado_unidad_proyecto", "estado_contrato", "estado"}
)

// Matches applies the full predicate to one record of any dataset
func (f Filters) Matches(item any) bool {
	if !f.matchesSearch(item) {
		return false
	}
	if !matchExact(item, f.CentrosGestores, aliasesCentroGestor) {
		return false
	}
	if !matchExact(item, f.Comunas, aliasesComuna) {
		return false
	}
	if !matchExact(item, f.Barrios, aliasesBarrio) {
		return false
	}
	if !matchExact(item, f.Corregimientos, aliasesCorregimiento) {
		return false
	}
	if !matchExact(item, f.Veredas, aliasesVereda) {
		return false
	}
	if !matchSubstring(item, f.FuentesFinanciamiento, aliasesFuente) {
		return false
	}
	if !matchSubstring(item, f.Periodos, aliasesPeriodo) {
		return false
	}
	if f.Estado != "" && !matchExact(item, []string{f.Estado}, aliasesEstado) {
		return false
	}
	return true
}

// matchesSearch passes when the needle appears in the record's bpin or in any
// stringified field, case- and accent-insensitively
func (f Filters) matchesSearch(item any) bool {
	needle := Fold(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}

	if id, ok := recordBPIN(item); ok {
		if strings.Contains(strconv.FormatInt(id, 10), needle) {
			return true
		}
	}

	for _, field := range stringifyFields(item) {
		if strings.Contains(Fold(field), needle) {
			return true
		}
	}
	return false
}

// matchExact: the record's aliased field must be one of the allowed values.
// A missing field never matches an active clause.
func matchExact(item any, allowed []string, aliases []string) bool {
	if len(allowed) == 0 {
		return true
	}
	value, ok := fieldByAliases(item, aliases...)
	if !ok {
		return false
	}
	folded := Fold(value)
	for _, want := range allowed {
		if folded == Fold(want) {
			return true
		}
	}
	return false
}

// matchSubstring: the record's aliased field must contain one of the allowed
// values, case-insensitively
func matchSubstring(item any, allowed []string, aliases []string) bool {
	if len(allowed) == 0 {
		return true
	}
	value, ok := fieldByAliases(item, aliases...)
	if !ok {
		return false
	}
	folded := Fold(value)
	for _, want := range allowed {
		if strings.Contains(folded, Fold(want)) {
			return true
		}
	}
	return false
}

// FilterDataset applies the predicate independently to one collection,
// never mutating the source slice
func FilterDataset[T any](items []T, f Filters) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// restrictByBPIN keeps only rows whose bpin survives in the allowed set, then
// applies the search clause within the survivors
func restrictByBPIN[T any](items []T, allowed map[int64]bool, f Filters) []T {
	out := make([]T, 0, len(items))
	search := f.searchOnly()
	for _, item := range items {
		id, ok := recordBPIN(item)
		if !ok || !allowed[id] {
			continue
		}
		if search.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
