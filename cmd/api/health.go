package main

import "net/http"

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {

	data := map[string]any{
		"status":  "available",
		"version": "0.1.0",
	}

	if errMsg := app.store.Err(); errMsg != "" {
		data["status"] = "degraded"
		data["load_error"] = errMsg
	}
	if app.store.Loading() {
		data["status"] = "loading"
	}
	if loadedAt := app.store.LoadedAt(); !loadedAt.IsZero() {
		data["loaded_at"] = loadedAt
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
