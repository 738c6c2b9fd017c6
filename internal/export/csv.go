// Package export renders filtered views as CSV for download from the
// dashboard, building gota dataframes column by column.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/calidata/monitor-inversiones/internal/datastore"
)

// ProyectosCSV writes the filtered project collection as CSV
func ProyectosCSV(w io.Writer, proyectos []datastore.Proyecto) error {
	n := len(proyectos)
	bpins := make([]int, n)
	nombres := make([]string, n)
	centros := make([]string, n)
	programas := make([]string, n)
	fondos := make([]string, n)
	anios := make([]int, n)
	tipos := make([]string, n)

	for i, p := range proyectos {
		bpins[i] = int(p.BPIN)
		nombres[i] = p.NombreProyecto
		centros[i] = p.NombreCentroGestor
		programas[i] = p.NombrePrograma
		fondos[i] = p.NombreFondo
		anios[i] = int(p.Anio)
		tipos[i] = p.TipoGasto
	}

	df := dataframe.New(
		series.New(bpins, series.Int, "bpin"),
		series.New(nombres, series.String, "nombre_proyecto"),
		series.New(centros, series.String, "nombre_centro_gestor"),
		series.New(programas, series.String, "nombre_programa"),
		series.New(fondos, series.String, "nombre_fondo"),
		series.New(anios, series.Int, "anio"),
		series.New(tipos, series.String, "tipo_gasto"),
	)
	if df.Error() != nil {
		return fmt.Errorf("building projects dataframe: %w", df.Error())
	}
	return df.WriteCSV(w)
}

// ResumenCentroGestorCSV writes per-managing-center project counts and
// latest-period budget totals as CSV, largest budget first
func ResumenCentroGestorCSV(w io.Writer, proyectos []datastore.Proyecto, movs []datastore.MovimientoPresupuestal) error {
	latest := datastore.LatestMovimientos(movs)

	type fila struct {
		centro    string
		proyectos int
		ppto      float64
	}
	porCentro := make(map[string]*fila)
	for _, p := range proyectos {
		f, ok := porCentro[p.NombreCentroGestor]
		if !ok {
			f = &fila{centro: p.NombreCentroGestor}
			porCentro[p.NombreCentroGestor] = f
		}
		f.proyectos++
		if m, ok := latest[int64(p.BPIN)]; ok {
			f.ppto += float64(m.PptoModificado)
		}
	}

	filas := make([]fila, 0, len(porCentro))
	for _, f := range porCentro {
		filas = append(filas, *f)
	}
	sort.Slice(filas, func(i, j int) bool { return filas[i].ppto > filas[j].ppto })

	centros := make([]string, len(filas))
	counts := make([]int, len(filas))
	pptos := make([]float64, len(filas))
	for i, f := range filas {
		centros[i] = f.centro
		counts[i] = f.proyectos
		pptos[i] = f.ppto
	}

	df := dataframe.New(
		series.New(centros, series.String, "nombre_centro_gestor"),
		series.New(counts, series.Int, "proyectos"),
		series.New(pptos, series.Float, "ppto_modificado"),
	)
	if df.Error() != nil {
		return fmt.Errorf("building summary dataframe: %w", df.Error())
	}
	return df.WriteCSV(w)
}
