package datastore

import (
	"strconv"
	"strings"

	"github.com/calidata/monitor-inversiones/internal/geojson"
)

// Flattening of GeoJSON feature properties into UnidadProyecto records. The
// property bags are as inconsistent as the JSON datasets, so every getter is
// permissive: absent or unparseable values collapse to the zero value.

func propString(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k]; ok {
			switch s := v.(type) {
			case string:
				if s != "" && !strings.EqualFold(s, "none") {
					return s
				}
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64)
			}
		}
	}
	return ""
}

func propFloat(props map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := props[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func propInt64(props map[string]any, keys ...string) int64 {
	return int64(propFloat(props, keys...))
}

// UnidadesFromCollection flattens one project-unit layer. fuente tags which
// layer the unit came from (equipamientos or infraestructura_vial).
func UnidadesFromCollection(fc *geojson.FeatureCollection, fuente string) []UnidadProyecto {
	if fc == nil {
		return nil
	}

	out := make([]UnidadProyecto, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Properties == nil {
			continue
		}
		p := f.Properties
		out = append(out, UnidadProyecto{
			BPIN:             FlexInt64(propInt64(p, "bpin")),
			NombreUnidad:     propString(p, "nombre_unidad_proyecto", "nombre_unidad", "nickname"),
			Comuna:           propString(p, "comuna", "nombre_comuna"),
			Barrio:           propString(p, "barrio", "nombre_barrio"),
			Corregimiento:    propString(p, "corregimiento", "nombre_corregimiento"),
			Vereda:           propString(p, "vereda", "nombre_vereda"),
			TipoIntervencion: propString(p, "tipo_intervencion"),
			ClaseObra:        propString(p, "clase_obra"),
			PresupuestoBase:  FlexFloat(propFloat(p, "presupuesto_base", "ppto_base")),
			AvanceFisicoObra: FlexFloat(propFloat(p, "avance_fisico_obra", "avance_obra")),
			EstadoUnidad:     propString(p, "estado_unidad_proyecto", "estado"),
			Fuente:           fuente,
		})
	}
	return out
}
