package datastore

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Progress-status labels bucketed from avance ratios in [0,1]
const (
	EstadoCompletado   = "Completado"
	EstadoPorFinalizar = "Por finalizar"
	EstadoEnEjecucion  = "En ejecución"
	EstadoIniciado     = "Iniciado"
	EstadoPlaneacion   = "En planeación"
)

// EstadoPorAvance buckets a progress ratio into its dashboard status
func EstadoPorAvance(avance float64) string {
	switch {
	case avance >= 1.0:
		return EstadoCompletado
	case avance >= 0.8:
		return EstadoPorFinalizar
	case avance >= 0.3:
		return EstadoEnEjecucion
	case avance > 0:
		return EstadoIniciado
	default:
		return EstadoPlaneacion
	}
}

var periodoLayouts = []string{"2006-01", "2006-01-02", "2006-1", "2006/01"}

// ParsePeriodo reads a periodo_corte string as a date. The generator emits
// ISO-like strings; this keeps period ordering correct even if padding or
// precision ever drifts between files.
func ParsePeriodo(s string) (time.Time, bool) {
	for _, layout := range periodoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// periodoAfter orders two period strings, typed-date comparison first and
// lexicographic fallback when either side does not parse
func periodoAfter(a, b string) bool {
	ta, okA := ParsePeriodo(a)
	tb, okB := ParsePeriodo(b)
	if okA && okB {
		return ta.After(tb)
	}
	return a > b
}

// latestPorBPIN reduces period-keyed records to the newest snapshot per bpin.
// Ties (same period seen twice) resolve last-write-wins, matching how the
// generator emits duplicates.
func latestPorBPIN[T any](items []T, bpin func(T) int64, periodo func(T) string) map[int64]T {
	out := make(map[int64]T)
	for _, item := range items {
		id := bpin(item)
		existing, ok := out[id]
		if !ok || !periodoAfter(periodo(existing), periodo(item)) {
			out[id] = item
		}
	}
	return out
}

// LatestMovimientos keeps the newest budget movement snapshot per bpin
func LatestMovimientos(movs []MovimientoPresupuestal) map[int64]MovimientoPresupuestal {
	return latestPorBPIN(movs,
		func(m MovimientoPresupuestal) int64 { return int64(m.BPIN) },
		func(m MovimientoPresupuestal) string { return m.PeriodoCorte })
}

// LatestEjecucion keeps the newest execution snapshot per bpin
func LatestEjecucion(ejec []EjecucionPresupuestal) map[int64]EjecucionPresupuestal {
	return latestPorBPIN(ejec,
		func(e EjecucionPresupuestal) int64 { return int64(e.BPIN) },
		func(e EjecucionPresupuestal) string { return e.PeriodoCorte })
}

// LatestSeguimiento keeps the newest tracking snapshot per bpin
func LatestSeguimiento(seg []SeguimientoPA) map[int64]SeguimientoPA {
	return latestPorBPIN(seg,
		func(s SeguimientoPA) int64 { return int64(s.BPIN) },
		func(s SeguimientoPA) string { return s.PeriodoCorte })
}

// JoinContratos attaches contract values by contract code. Contracts without
// a value row keep zero, per the permissive-numerics contract.
func JoinContratos(contratos []Contrato, valores []ContratoValor) []ContratoConValor {
	byCode := make(map[string]float64, len(valores))
	for _, v := range valores {
		byCode[v.CodContrato] = float64(v.ValorContrato)
	}

	out := make([]ContratoConValor, 0, len(contratos))
	for _, c := range contratos {
		out = append(out, ContratoConValor{Contrato: c, ValorContrato: byCode[c.CodContrato]})
	}
	return out
}

// TendenciaMensual is one point of the budget trend series
type TendenciaMensual struct {
	Periodo        string  `json:"periodo"`
	PptoModificado float64 `json:"ppto_modificado"`
	Ejecucion      float64 `json:"ejecucion"`
	Pagos          float64 `json:"pagos"`
}

// maxTendenciaPeriodos caps the trend series to the most recent periods
const maxTendenciaPeriodos = 12

// Tendencia builds the monthly budget trend: per-period sums of modified
// budget, execution and payments, ascending, capped to the most recent 12
// periods
func Tendencia(movs []MovimientoPresupuestal, ejec []EjecucionPresupuestal) []TendenciaMensual {
	byPeriodo := make(map[string]*TendenciaMensual)

	point := func(periodo string) *TendenciaMensual {
		if p, ok := byPeriodo[periodo]; ok {
			return p
		}
		p := &TendenciaMensual{Periodo: periodo}
		byPeriodo[periodo] = p
		return p
	}

	for _, m := range movs {
		if m.PeriodoCorte == "" {
			continue
		}
		p := point(m.PeriodoCorte)
		p.PptoModificado += float64(m.PptoModificado)
	}
	for _, e := range ejec {
		if e.PeriodoCorte == "" {
			continue
		}
		p := point(e.PeriodoCorte)
		p.Ejecucion += float64(e.Ejecucion)
		p.Pagos += float64(e.Pagos)
	}

	out := make([]TendenciaMensual, 0, len(byPeriodo))
	for _, p := range byPeriodo {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return periodoAfter(out[j].Periodo, out[i].Periodo) })

	if len(out) > maxTendenciaPeriodos {
		out = out[len(out)-maxTendenciaPeriodos:]
	}
	return out
}

// ResumenProyectos is the project-level aggregate for the dashboard header
type ResumenProyectos struct {
	TotalProyectos      int            `json:"total_proyectos"`
	PptoModificadoTotal float64        `json:"ppto_modificado_total"`
	EjecucionTotal      float64        `json:"ejecucion_total"`
	PagosTotal          float64        `json:"pagos_total"`
	AvancePromedio      float64        `json:"avance_promedio"`
	ProyectosPorEstado  map[string]int `json:"proyectos_por_estado"`
}

// Resumen aggregates filtered projects against the latest budget and
// tracking snapshots per bpin
func Resumen(proyectos []Proyecto, movs []MovimientoPresupuestal, ejec []EjecucionPresupuestal, seg []SeguimientoPA) ResumenProyectos {
	latestMov := LatestMovimientos(movs)
	latestEjec := LatestEjecucion(ejec)
	latestSeg := LatestSeguimiento(seg)

	res := ResumenProyectos{
		TotalProyectos:     len(proyectos),
		ProyectosPorEstado: make(map[string]int),
	}

	var avances []float64
	for _, p := range proyectos {
		id := int64(p.BPIN)
		if m, ok := latestMov[id]; ok {
			res.PptoModificadoTotal += float64(m.PptoModificado)
		}
		if e, ok := latestEjec[id]; ok {
			res.EjecucionTotal += float64(e.Ejecucion)
			res.PagosTotal += float64(e.Pagos)
		}

		avance := 0.0
		if s, ok := latestSeg[id]; ok {
			avance = float64(s.AvanceProyectoPA)
		}
		avances = append(avances, avance)
		res.ProyectosPorEstado[EstadoPorAvance(avance)]++
	}

	if len(avances) > 0 {
		res.AvancePromedio = stat.Mean(avances, nil)
	}
	return res
}
