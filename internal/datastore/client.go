package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/calidata/monitor-inversiones/internal/logger"
	"github.com/calidata/monitor-inversiones/internal/metrics"
)

// Static data endpoints on the file host, relative to the configured base URL
const (
	PathProyectos              = "/data/ejecucion_presupuestal/datos_caracteristicos_proyectos.json"
	PathMovimientos            = "/data/ejecucion_presupuestal/movimientos_presupuestales.json"
	PathEjecucion              = "/data/ejecucion_presupuestal/ejecucion_presupuestal.json"
	PathSeguimientoPA          = "/data/seguimiento_pa/seguimiento_pa.json"
	PathSeguimientoProductos   = "/data/seguimiento_pa/seguimiento_productos_pa.json"
	PathSeguimientoActividades = "/data/seguimiento_pa/seguimiento_actividades_pa.json"
	PathContratos              = "/data/contratos/contratos.json"
	PathContratosValores       = "/data/contratos/contratos_valores.json"
)

// Client fetches domain JSON datasets from the static file host
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, appLogger *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     appLogger,
	}
}

// FetchJSON decodes one dataset into v. Non-2xx statuses and transport
// failures come back as errors naming the path; there is no retry here.
func (c *Client) FetchJSON(ctx context.Context, path string, v any) error {
	const component = "DataClient"
	start := time.Now()
	metrics.DatasetLoadsTotal.WithLabelValues(path).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("dataset %s: building request: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(path).Inc()
		return fmt.Errorf("dataset %s: fetch failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(path).Inc()
		return fmt.Errorf("dataset %s: unexpected HTTP status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(path).Inc()
		return fmt.Errorf("dataset %s: decoding body: %w", path, err)
	}

	metrics.DatasetLoadDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	c.log.Debug(component, "Dataset fetched: path=%s elapsedMs=%d", path, time.Since(start).Milliseconds())
	return nil
}
