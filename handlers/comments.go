package handlers

import (
	"net/http"

	"mission-control/utilities"
	"mission-control/validation"

	"github.com/gorilla/mux"
)

func (h *Handler) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	comments, err := h.comments.ListTaskComments(r.Context(), id)
	if err != nil {
		storeFailure(w, err, msgTaskNotFound, "Failed to fetch comments", "Erro ao listar comentários da tarefa "+id)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res := validation.ParseCreateComment(body(w, r))
	if !res.OK() {
		writeValidation(w, res.Errors)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), id, res.Value.Text)
	if err != nil {
		storeFailure(w, err, msgTaskNotFound, "Failed to create comment", "Erro ao inserir comentário")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	comment, err := h.comments.GetComment(r.Context(), id)
	if err != nil {
		storeFailure(w, err, "Comment not found", "Failed to fetch comment", "Erro ao buscar comentário "+id)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.comments.DeleteComment(r.Context(), id); err != nil {
		storeFailure(w, err, "Comment not found", "Failed to delete comment", "Erro ao remover comentário "+id)
		return
	}
	utilities.LogDebug("Comentário removido: %s", id)
	w.WriteHeader(http.StatusNoContent)
}
