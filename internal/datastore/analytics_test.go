package datastore

import (
	"fmt"
	"math"
	"testing"
)

func TestEstadoPorAvance(t *testing.T) {
	tests := []struct {
		avance float64
		want   string
	}{
		{1.2, EstadoCompletado},
		{1.0, EstadoCompletado},
		{0.85, EstadoPorFinalizar},
		{0.8, EstadoPorFinalizar},
		{0.5, EstadoEnEjecucion},
		{0.3, EstadoEnEjecucion},
		{0.1, EstadoIniciado},
		{0, EstadoPlaneacion},
		{-0.5, EstadoPlaneacion},
	}
	for _, tt := range tests {
		if got := EstadoPorAvance(tt.avance); got != tt.want {
			t.Errorf("EstadoPorAvance(%v) = %q, want %q", tt.avance, got, tt.want)
		}
	}
}

func TestPeriodoAfter(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2024-06", "2024-01", true},
		{"2024-01", "2024-06", false},
		{"2024-06", "2023-12", true},
		{"2024-06", "2024-06", false},
		// unpadded month still compares as a date
		{"2024-10", "2024-9", true},
		// neither parses: lexicographic fallback
		{"trimestre-2", "trimestre-1", true},
	}
	for _, tt := range tests {
		if got := periodoAfter(tt.a, tt.b); got != tt.want {
			t.Errorf("periodoAfter(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLatestMovimientos(t *testing.T) {
	movs := []MovimientoPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-01", PptoModificado: 100},
		{BPIN: 1, PeriodoCorte: "2024-06", PptoModificado: 300},
		{BPIN: 1, PeriodoCorte: "2023-12", PptoModificado: 50},
		{BPIN: 2, PeriodoCorte: "2024-03", PptoModificado: 700},
	}

	latest := LatestMovimientos(movs)
	if len(latest) != 2 {
		t.Fatalf("expected 2 bpins, got %d", len(latest))
	}
	if got := latest[1]; got.PeriodoCorte != "2024-06" || got.PptoModificado != 300 {
		t.Errorf("latest for bpin 1: %+v", got)
	}
	if got := latest[2]; got.PptoModificado != 700 {
		t.Errorf("latest for bpin 2: %+v", got)
	}
}

func TestLatestMovimientos_TieLastWriteWins(t *testing.T) {
	movs := []MovimientoPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-06", PptoModificado: 100},
		{BPIN: 1, PeriodoCorte: "2024-06", PptoModificado: 200},
	}
	if got := LatestMovimientos(movs)[1]; got.PptoModificado != 200 {
		t.Errorf("tie should resolve to the later row, got %+v", got)
	}
}

func TestJoinContratos(t *testing.T) {
	contratos := []Contrato{
		{BPIN: 1, CodContrato: "C-001", NombreContrato: "Obra civil"},
		{BPIN: 2, CodContrato: "C-002", NombreContrato: "Interventoría"},
	}
	valores := []ContratoValor{{CodContrato: "C-001", ValorContrato: 5000}}

	joined := JoinContratos(contratos, valores)
	if len(joined) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(joined))
	}
	if joined[0].ValorContrato != 5000 {
		t.Errorf("C-001 value = %v", joined[0].ValorContrato)
	}
	if joined[1].ValorContrato != 0 {
		t.Errorf("contract without a value row must be zero, got %v", joined[1].ValorContrato)
	}
}

func TestTendencia(t *testing.T) {
	movs := []MovimientoPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-01", PptoModificado: 100},
		{BPIN: 2, PeriodoCorte: "2024-01", PptoModificado: 50},
		{BPIN: 1, PeriodoCorte: "2024-02", PptoModificado: 120},
		{BPIN: 1, PeriodoCorte: "", PptoModificado: 999}, // dropped
	}
	ejec := []EjecucionPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-01", Ejecucion: 80, Pagos: 60},
		{BPIN: 1, PeriodoCorte: "2024-02", Ejecucion: 90, Pagos: 70},
	}

	serie := Tendencia(movs, ejec)
	if len(serie) != 2 {
		t.Fatalf("expected 2 points, got %v", serie)
	}
	if serie[0].Periodo != "2024-01" || serie[1].Periodo != "2024-02" {
		t.Errorf("series not ascending: %v", serie)
	}
	if serie[0].PptoModificado != 150 {
		t.Errorf("per-period sum: %v", serie[0])
	}
	if serie[1].Ejecucion != 90 || serie[1].Pagos != 70 {
		t.Errorf("execution point: %v", serie[1])
	}
}

func TestTendencia_CapsToRecentPeriods(t *testing.T) {
	var movs []MovimientoPresupuestal
	for m := 1; m <= 15; m++ {
		movs = append(movs, MovimientoPresupuestal{
			BPIN:           1,
			PeriodoCorte:   fmt.Sprintf("2024-%02d", (m-1)%12+1),
			PptoModificado: 1,
		})
	}
	movs = append(movs,
		MovimientoPresupuestal{BPIN: 1, PeriodoCorte: "2025-01", PptoModificado: 1},
		MovimientoPresupuestal{BPIN: 1, PeriodoCorte: "2025-02", PptoModificado: 1},
	)

	serie := Tendencia(movs, nil)
	if len(serie) != maxTendenciaPeriodos {
		t.Fatalf("expected cap at %d, got %d", maxTendenciaPeriodos, len(serie))
	}
	// the oldest periods fall off, the newest survive
	if serie[len(serie)-1].Periodo != "2025-02" {
		t.Errorf("newest period missing: %v", serie[len(serie)-1])
	}
	if serie[0].Periodo == "2024-01" {
		t.Error("oldest period should have been trimmed")
	}
}

func TestResumen(t *testing.T) {
	proyectos := []Proyecto{{BPIN: 1}, {BPIN: 2}, {BPIN: 3}}
	movs := []MovimientoPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-01", PptoModificado: 100},
		{BPIN: 1, PeriodoCorte: "2024-06", PptoModificado: 150},
		{BPIN: 2, PeriodoCorte: "2024-06", PptoModificado: 200},
	}
	ejec := []EjecucionPresupuestal{
		{BPIN: 1, PeriodoCorte: "2024-06", Ejecucion: 120, Pagos: 100},
	}
	seg := []SeguimientoPA{
		{BPIN: 1, PeriodoCorte: "2024-06", AvanceProyectoPA: 1.0},
		{BPIN: 2, PeriodoCorte: "2024-06", AvanceProyectoPA: 0.5},
		// bpin 3 has no tracking row: counts as zero avance
	}

	res := Resumen(proyectos, movs, ejec, seg)

	if res.TotalProyectos != 3 {
		t.Errorf("TotalProyectos = %d", res.TotalProyectos)
	}
	// only the latest snapshot per bpin contributes
	if res.PptoModificadoTotal != 350 {
		t.Errorf("PptoModificadoTotal = %v", res.PptoModificadoTotal)
	}
	if res.EjecucionTotal != 120 || res.PagosTotal != 100 {
		t.Errorf("ejecucion=%v pagos=%v", res.EjecucionTotal, res.PagosTotal)
	}
	if want := 0.5; math.Abs(res.AvancePromedio-want) > 1e-9 {
		t.Errorf("AvancePromedio = %v, want %v", res.AvancePromedio, want)
	}
	wantEstados := map[string]int{EstadoCompletado: 1, EstadoEnEjecucion: 1, EstadoPlaneacion: 1}
	for estado, n := range wantEstados {
		if res.ProyectosPorEstado[estado] != n {
			t.Errorf("ProyectosPorEstado[%s] = %d, want %d", estado, res.ProyectosPorEstado[estado], n)
		}
	}
}
