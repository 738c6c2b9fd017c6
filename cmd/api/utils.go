package main

import (
	"net/http"
	"strings"

	"github.com/calidata/monitor-inversiones/internal/datastore"
)

// parseListParam splits a comma-separated query value, dropping blanks
func parseListParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseFilters builds the filter state from query parameters. Multi-value
// filters arrive comma-separated.
func parseFilters(r *http.Request) datastore.Filters {
	q := r.URL.Query()
	return datastore.Filters{
		Search:                q.Get("q"),
		CentrosGestores:       parseListParam(q.Get("centros_gestores")),
		Comunas:               parseListParam(q.Get("comunas")),
		Barrios:               parseListParam(q.Get("barrios")),
		Corregimientos:        parseListParam(q.Get("corregimientos")),
		Veredas:               parseListParam(q.Get("veredas")),
		FuentesFinanciamiento: parseListParam(q.Get("fuentes_financiamiento")),
		Periodos:              parseListParam(q.Get("periodos")),
		Estado:                q.Get("estado"),
	}
}
