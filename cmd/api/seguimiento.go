package main

import (
	"net/http"

	"github.com/calidata/monitor-inversiones/internal/datastore"
	"github.com/calidata/monitor-inversiones/internal/response"
)

type GetActividadesResponse = response.APIResponse[[]datastore.Actividad]
type GetProductosResponse = response.APIResponse[[]datastore.Producto]
type GetUnidadesResponse = response.APIResponse[[]datastore.UnidadProyecto]
type GetContratosResponse = response.APIResponse[[]datastore.ContratoConValor]

func (app *application) handleGetActividades(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetActividadesResponse{
		Success: true,
		Data:    snapshot.Actividades,
		Message: "Successfully filtered activities",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetProductos(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetProductosResponse{
		Success: true,
		Data:    snapshot.Productos,
		Message: "Successfully filtered products",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetUnidades(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetUnidadesResponse{
		Success: true,
		Data:    snapshot.Unidades,
		Message: "Successfully filtered project units",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetContratos(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetContratosResponse{
		Success: true,
		Data:    snapshot.Contratos,
		Message: "Successfully filtered contracts with values",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
