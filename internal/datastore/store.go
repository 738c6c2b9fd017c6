package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/calidata/monitor-inversiones/internal/geodata"
	"github.com/calidata/monitor-inversiones/internal/logger"
	"github.com/calidata/monitor-inversiones/internal/metrics"
)

// Store owns the full in-memory dataset for the process lifetime. Everything
// loads once (or again on an explicit reload), is never written back, and all
// derived views are recomputed from the source slices on demand.
type Store struct {
	client  *Client
	geo     *geodata.OptimizedLoader
	geoBase *geodata.Loader
	log     *logger.Logger

	mu               sync.RWMutex
	proyectos        []Proyecto
	unidades         []UnidadProyecto
	movimientos      []MovimientoPresupuestal
	ejecucion        []EjecucionPresupuestal
	actividades      []Actividad
	productos        []Producto
	seguimiento      []SeguimientoPA
	contratos        []Contrato
	contratosValores []ContratoValor

	loading  bool
	loadErr  string
	loadedAt time.Time
}

func NewStore(client *Client, geo *geodata.OptimizedLoader, geoBase *geodata.Loader, appLogger *logger.Logger) *Store {
	return &Store{client: client, geo: geo, geoBase: geoBase, log: appLogger}
}

// unit layers fetched through the batch loader, direct loader as fallback
var unidadLayers = []string{"equipamientos", "infraestructura_vial"}

// LoadAll fetches every domain dataset in one parallel batch, plus the
// project-unit GeoJSON layers. All-or-nothing: the first failure becomes the
// store error and no partial state is published. The loading flag clears
// whatever the outcome.
func (s *Store) LoadAll(ctx context.Context) error {
	const component = "DataStore"
	start := time.Now()

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var (
		proyectos        []Proyecto
		movimientos      []MovimientoPresupuestal
		ejecucion        []EjecucionPresupuestal
		actividades      []Actividad
		productos        []Producto
		seguimiento      []SeguimientoPA
		contratos        []Contrato
		contratosValores []ContratoValor
		unidades         []UnidadProyecto
	)

	fetches := []struct {
		path string
		dest any
	}{
		{PathProyectos, &proyectos},
		{PathMovimientos, &movimientos},
		{PathEjecucion, &ejecucion},
		{PathSeguimientoActividades, &actividades},
		{PathSeguimientoProductos, &productos},
		{PathSeguimientoPA, &seguimiento},
		{PathContratos, &contratos},
		{PathContratosValores, &contratosValores},
	}

	s.log.Info(component, "Starting full data load: datasets=%d geoLayers=%d", len(fetches), len(unidadLayers))

	var wg sync.WaitGroup
	errs := make(chan error, len(fetches)+1)

	for _, f := range fetches {
		wg.Add(1)
		go func(path string, dest any) {
			defer wg.Done()
			if err := s.client.FetchJSON(ctx, path, dest); err != nil {
				errs <- err
			}
		}(f.path, f.dest)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		units, err := s.loadUnidades(ctx)
		if err != nil {
			errs <- err
			return
		}
		unidades = units
	}()

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		s.mu.Lock()
		s.loadErr = err.Error()
		s.mu.Unlock()
		s.log.Error(component, "Full data load failed: error=%v", err)
		return err
	}

	s.mu.Lock()
	s.proyectos = proyectos
	s.movimientos = movimientos
	s.ejecucion = ejecucion
	s.actividades = actividades
	s.productos = productos
	s.seguimiento = seguimiento
	s.contratos = contratos
	s.contratosValores = contratosValores
	s.unidades = unidades
	s.loadErr = ""
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Info(component, "Full data load complete: proyectos=%d movimientos=%d ejecucion=%d actividades=%d productos=%d contratos=%d unidades=%d elapsedMs=%d",
		len(proyectos), len(movimientos), len(ejecucion), len(actividades), len(productos), len(contratos), len(unidades), time.Since(start).Milliseconds())
	return nil
}

// loadUnidades pulls the two project-unit layers through the batch loader
// and falls back to direct loads for anything the batch could not deliver
func (s *Store) loadUnidades(ctx context.Context) ([]UnidadProyecto, error) {
	const component = "DataStore"

	batch := s.geo.LoadBatch(ctx, geodata.BatchOptions{SpecificFiles: unidadLayers, PriorityFirst: true})

	var out []UnidadProyecto
	for _, layer := range unidadLayers {
		fc, ok := batch.Data[layer]
		if !ok {
			s.log.Warn(component, "Batch missed unit layer, retrying directly: layer=%s", layer)
			direct, err := s.geoBase.Load(ctx, layer, geodata.LoadOptions{})
			if err != nil {
				return nil, err
			}
			fc = direct
		}
		out = append(out, UnidadesFromCollection(fc, layer)...)
	}
	return out, nil
}

// Err returns the stored load error message, empty when healthy
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Stats are the aggregate counts of one filtered snapshot
type Stats struct {
	Proyectos        int `json:"proyectos"`
	UnidadesProyecto int `json:"unidades_proyecto"`
	Productos        int `json:"productos"`
	Actividades      int `json:"actividades"`
	Contratos        int `json:"contratos"`
}

// FilteredData is one consistent derived view of every collection under a
// filter state
type FilteredData struct {
	Proyectos   []Proyecto               `json:"proyectos"`
	Unidades    []UnidadProyecto         `json:"unidades_proyecto"`
	Movimientos []MovimientoPresupuestal `json:"movimientos_presupuestales"`
	Ejecucion   []EjecucionPresupuestal  `json:"ejecucion_presupuestal"`
	Actividades []Actividad              `json:"actividades"`
	Productos   []Producto               `json:"productos"`
	Seguimiento []SeguimientoPA          `json:"seguimiento_pa"`
	Contratos   []ContratoConValor       `json:"contratos"`
	Mode        string                   `json:"mode"`
	Stats       Stats                    `json:"stats"`
}

// Snapshot recomputes the filtered view. Two strategies, chosen by the
// filter state itself:
//
// Independent: every collection is filtered on its own fields. A product for
// a project the filter would exclude can still appear when it matches the
// search term itself.
//
// Cascading: any structural clause restricts child collections to the bpins
// that survived filtering on the project collection; the search clause still
// applies within each cascaded collection.
func (s *Store) Snapshot(f Filters) FilteredData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode := f.Mode()
	metrics.FilterSnapshotsTotal.WithLabelValues(mode.String()).Inc()

	var out FilteredData
	out.Mode = mode.String()
	out.Proyectos = FilterDataset(s.proyectos, f)

	switch mode {
	case ModeCascading:
		allowed := make(map[int64]bool, len(out.Proyectos))
		for _, p := range out.Proyectos {
			allowed[int64(p.BPIN)] = true
		}
		out.Unidades = restrictByBPIN(s.unidades, allowed, f)
		out.Movimientos = restrictByBPIN(s.movimientos, allowed, f)
		out.Ejecucion = restrictByBPIN(s.ejecucion, allowed, f)
		out.Actividades = restrictByBPIN(s.actividades, allowed, f)
		out.Productos = restrictByBPIN(s.productos, allowed, f)
		out.Seguimiento = restrictByBPIN(s.seguimiento, allowed, f)
		out.Contratos = JoinContratos(restrictByBPIN(s.contratos, allowed, f), s.contratosValores)
	default:
		out.Unidades = FilterDataset(s.unidades, f)
		out.Movimientos = FilterDataset(s.movimientos, f)
		out.Ejecucion = FilterDataset(s.ejecucion, f)
		out.Actividades = FilterDataset(s.actividades, f)
		out.Productos = FilterDataset(s.productos, f)
		out.Seguimiento = FilterDataset(s.seguimiento, f)
		out.Contratos = JoinContratos(FilterDataset(s.contratos, f), s.contratosValores)
	}

	out.Stats = Stats{
		Proyectos:        len(out.Proyectos),
		UnidadesProyecto: len(out.Unidades),
		Productos:        len(out.Productos),
		Actividades:      len(out.Actividades),
		Contratos:        len(out.Contratos),
	}
	return out
}

// Proyectos returns the unfiltered project collection
func (s *Store) Proyectos() []Proyecto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proyectos
}

// Movimientos returns the unfiltered budget movement collection
func (s *Store) Movimientos() []MovimientoPresupuestal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movimientos
}

// Ejecucion returns the unfiltered budget execution collection
func (s *Store) Ejecucion() []EjecucionPresupuestal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ejecucion
}

// Seguimiento returns the unfiltered tracking collection
func (s *Store) Seguimiento() []SeguimientoPA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seguimiento
}
