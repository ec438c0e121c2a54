package handlers

import (
	"net/http"

	"mission-control/utilities"
	"mission-control/workspace"

	"github.com/gorilla/mux"
)

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.workspace.ListNotes()
	if err != nil {
		utilities.LogError(err, "Erro ao listar notas do workspace")
		writeError(w, http.StatusInternalServerError, "Failed to fetch files")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// ReadFile devolve o conteúdo cru da nota; com ?format=html inclui a versão renderizada.
func (h *Handler) ReadFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := workspace.ValidateName(name); err != nil {
		utilities.LogWarn("Nome de arquivo recusado: %q", name)
		writeError(w, http.StatusBadRequest, "Invalid file name")
		return
	}

	note, err := h.workspace.ReadNote(name)
	if err != nil {
		utilities.LogError(err, "Erro ao ler nota "+name)
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := workspace.RenderHTML(note.Content)
		if err != nil {
			utilities.LogError(err, "Erro ao renderizar nota "+name)
			writeError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		note.HTML = html
	}
	writeJSON(w, http.StatusOK, note)
}

// ListAgents nunca falha: qualquer problema com o MEMORY.md vira lista vazia.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace.Agents())
}
