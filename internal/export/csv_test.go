package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calidata/monitor-inversiones/internal/datastore"
)

func TestProyectosCSV(t *testing.T) {
	proyectos := []datastore.Proyecto{
		{BPIN: 1001, NombreProyecto: "Parque lineal", NombreCentroGestor: "Secretaría de Deporte", Anio: 2024, TipoGasto: "Inversión"},
		{BPIN: 1002, NombreProyecto: "Vía terciaria", NombreCentroGestor: "Secretaría de Infraestructura", Anio: 2023, TipoGasto: "Inversión"},
	}

	var buf bytes.Buffer
	if err := ProyectosCSV(&buf, proyectos); err != nil {
		t.Fatalf("ProyectosCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "bpin,nombre_proyecto,nombre_centro_gestor") {
		t.Errorf("header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "1001") || !strings.Contains(lines[1], "Parque lineal") {
		t.Errorf("first row: %q", lines[1])
	}
}

func TestResumenCentroGestorCSV(t *testing.T) {
	proyectos := []datastore.Proyecto{
		{BPIN: 1, NombreCentroGestor: "Deporte"},
		{BPIN: 2, NombreCentroGestor: "Infraestructura"},
		{BPIN: 3, NombreCentroGestor: "Infraestructura"},
	}
	movs := []datastore.MovimientoPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-06", PptoModificado: 900},
		{BPIN: 2, PeriodoCorte: "2024-01", PptoModificado: 100},
		{BPIN: 2, PeriodoCorte: "2024-06", PptoModificado: 200},
		{BPIN: 3, PeriodoCorte: "2024-06", PptoModificado: 300},
	}

	var buf bytes.Buffer
	if err := ResumenCentroGestorCSV(&buf, proyectos, movs); err != nil {
		t.Fatalf("ResumenCentroGestorCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", buf.String())
	}

	// Deporte's single project carries the larger latest-period budget and
	// sorts first; Infraestructura sums only latest snapshots (200 + 300)
	if !strings.HasPrefix(lines[1], "Deporte,1,900") {
		t.Errorf("first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Infraestructura,2,500") {
		t.Errorf("second row: %q", lines[2])
	}
}

func TestProyectosCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ProyectosCSV(&buf, nil); err != nil {
		t.Fatalf("ProyectosCSV on empty input: %v", err)
	}
	if !strings.Contains(buf.String(), "bpin") {
		t.Errorf("header missing on empty export: %q", buf.String())
	}
}
