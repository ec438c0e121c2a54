package handlers

import (
	"net/http"

	"mission-control/health"
	"mission-control/stats"
	"mission-control/utilities"
)

// Health lê os contadores do host a cada chamada.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	counters, err := h.health.Read(r.Context())
	if err != nil {
		utilities.LogError(err, "Erro ao ler contadores do host")
		writeError(w, http.StatusInternalServerError, "Failed to fetch health")
		return
	}
	writeJSON(w, http.StatusOK, health.Snapshot(counters, h.now()))
}

// Stats varre todas as tarefas e todos os logs a cada requisição.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		utilities.LogError(err, "Erro ao listar tarefas para estatísticas")
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	logs, err := h.logs.ListAllLogs(r.Context())
	if err != nil {
		utilities.LogError(err, "Erro ao listar logs para estatísticas")
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(tasks, logs, h.now()))
}
