package handlers

import (
	"net/http"

	"mission-control/utilities"
	"mission-control/validation"
)

// ListLogs devolve no máximo database.RecentLogsLimit logs, os mais novos primeiro.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.logs.ListRecentLogs(r.Context())
	if err != nil {
		utilities.LogError(err, "Erro ao listar logs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	res := validation.ParseCreateLog(body(w, r))
	if !res.OK() {
		writeValidation(w, res.Errors)
		return
	}

	entry, err := h.appender.CreateLog(r.Context(), res.Value)
	if err != nil {
		utilities.LogError(err, "Erro ao gravar log")
		writeError(w, http.StatusInternalServerError, "Failed to create log")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
