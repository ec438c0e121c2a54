package main

import (
	"net/http"

	"mission-control/handlers"
	"mission-control/utilities"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter monta a tabela de rotas da API com logging e CORS.
func NewRouter(h *handlers.Handler, allowedOrigins []string) http.Handler {
	// Sem limpeza de caminho: "/api/files/.." precisa chegar ao handler para ser recusado com 400.
	r := mux.NewRouter().SkipClean(true)

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// --- Tarefas ---
	api.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	api.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}", h.UpdateTask).Methods("PATCH")
	api.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")

	// --- Comentários ---
	api.HandleFunc("/tasks/{id}/comments", h.ListTaskComments).Methods("GET")
	api.HandleFunc("/tasks/{id}/comments", h.CreateComment).Methods("POST")
	api.HandleFunc("/comments/{id}", h.GetComment).Methods("GET")
	api.HandleFunc("/comments/{id}", h.DeleteComment).Methods("DELETE")

	// --- Logs do sistema ---
	api.HandleFunc("/logs", h.ListLogs).Methods("GET")
	api.HandleFunc("/logs", h.CreateLog).Methods("POST")

	// --- Monitoramento ---
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/stats", h.Stats).Methods("GET")

	// --- Workspace (somente leitura) ---
	api.HandleFunc("/files", h.ListFiles).Methods("GET")
	api.HandleFunc("/files/{name:.+}", h.ReadFile).Methods("GET")
	api.HandleFunc("/agents", h.ListAgents).Methods("GET")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	return gorillahandlers.CORS(headers, methods, origins)(r)
}
