package datastore

import (
	"bytes"
	"strconv"
	"strings"
)

// Domain records as they arrive from the pre-generated JSON files. BPIN is
// the public-investment project identifier and the join key across every
// dataset. Numeric fields decode through the Flex types: the generator leaves
// holes (null, "", "None", numbers quoted as strings) and the dashboard
// contract is that a missing number is zero, never an error.

type Proyecto struct {
	BPIN                   FlexInt64 `json:"bpin"`
	NombreProyecto         string    `json:"nombre_proyecto"`
	NombreCentroGestor     string    `json:"nombre_centro_gestor"`
	NombrePrograma         string    `json:"nombre_programa"`
	NombreLineaEstrategica string    `json:"nombre_linea_estrategica"`
	NombreFondo            string    `json:"nombre_fondo"`
	ClasificacionFondo     string    `json:"clasificacion_fondo"`
	Comuna                 string    `json:"comuna"`
	Anio                   FlexInt64 `json:"anio"`
	TipoGasto              string    `json:"tipo_gasto"`
}

// UnidadProyecto is a geolocated sub-unit of a project (a piece of equipment
// or road infrastructure), flattened from GeoJSON feature properties
type UnidadProyecto struct {
	BPIN             FlexInt64 `json:"bpin"`
	NombreUnidad     string    `json:"nombre_unidad_proyecto"`
	Comuna           string    `json:"comuna"`
	Barrio           string    `json:"barrio"`
	Corregimiento    string    `json:"corregimiento"`
	Vereda           string    `json:"vereda"`
	TipoIntervencion string    `json:"tipo_intervencion"`
	ClaseObra        string    `json:"clase_obra"`
	PresupuestoBase  FlexFloat `json:"presupuesto_base"`
	AvanceFisicoObra FlexFloat `json:"avance_fisico_obra"`
	EstadoUnidad     string    `json:"estado_unidad_proyecto"`
	Fuente           string    `json:"fuente"`
}

// MovimientoPresupuestal is a cumulative-to-date budget snapshot per
// (bpin, periodo_corte); figures are not deltas
type MovimientoPresupuestal struct {
	BPIN           FlexInt64 `json:"bpin"`
	PeriodoCorte   string    `json:"periodo_corte"`
	PptoInicial    FlexFloat `json:"ppto_inicial"`
	Adiciones      FlexFloat `json:"adiciones"`
	Reducciones    FlexFloat `json:"reducciones"`
	PptoModificado FlexFloat `json:"ppto_modificado"`
	Pagos          FlexFloat `json:"pagos"`
}

// EjecucionPresupuestal mirrors MovimientoPresupuestal for executed amounts
type EjecucionPresupuestal struct {
	BPIN         FlexInt64 `json:"bpin"`
	PeriodoCorte string    `json:"periodo_corte"`
	Ejecucion    FlexFloat `json:"ejecucion"`
	Pagos        FlexFloat `json:"pagos"`
}

type Actividad struct {
	BPIN            FlexInt64 `json:"bpin"`
	CodActividad    string    `json:"cod_actividad"`
	NombreActividad string    `json:"nombre_actividad"`
	PeriodoCorte    string    `json:"periodo_corte"`
	AvanceActividad FlexFloat `json:"avance_actividad"`
}

type Producto struct {
	BPIN           FlexInt64 `json:"bpin"`
	CodProducto    string    `json:"cod_producto"`
	NombreProducto string    `json:"nombre_producto"`
	PeriodoCorte   string    `json:"periodo_corte"`
	AvanceProducto FlexFloat `json:"avance_producto"`
}

// SeguimientoPA is the plan-of-action tracking snapshot per project
type SeguimientoPA struct {
	BPIN             FlexInt64 `json:"bpin"`
	PeriodoCorte     string    `json:"periodo_corte"`
	AvanceProyectoPA FlexFloat `json:"avance_proyecto_pa"`
	Observaciones    string    `json:"observaciones"`
}

// Contrato carries no monetary value itself; values live in a separate table
// joined by contract code
type Contrato struct {
	BPIN           FlexInt64 `json:"bpin"`
	CodContrato    string    `json:"cod_contrato"`
	NombreContrato string    `json:"nombre_contrato"`
	Proveedor      string    `json:"proveedor"`
	EstadoContrato string    `json:"estado_contrato"`
	FechaInicio    string    `json:"fecha_inicio"`
	FechaFin       string    `json:"fecha_fin"`
}

type ContratoValor struct {
	CodContrato   string    `json:"cod_contrato"`
	ValorContrato FlexFloat `json:"valor_contrato"`
}

// ContratoConValor is a contract with its value joined in
type ContratoConValor struct {
	Contrato
	ValorContrato float64 `json:"valor_contrato"`
}

// FlexFloat decodes a JSON number that may arrive as a number, a numeric
// string, null, or junk. Anything unparseable becomes zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat(parseFlexFloat(b))
	return nil
}

// FlexInt64 is FlexFloat's integer sibling, used for identifiers like bpin
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	*f = FlexInt64(int64(parseFlexFloat(b)))
	return nil
}

func parseFlexFloat(b []byte) float64 {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nan") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
