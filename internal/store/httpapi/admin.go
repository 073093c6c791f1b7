package httpapi

import (
	"net/http"

	"voicedesk/internal/store"
)

func (h *Handler) txBegin(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.Begin(r.Context()))
}

func (h *Handler) txCommit(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.Commit(r.Context()))
}

func (h *Handler) txRollback(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.Rollback(r.Context()))
}

// rawQueryRequest carries an administrative SQL statement.
type rawQueryRequest struct {
	Query string `json:"query"`
	Args  []any  `json:"args,omitempty"`
}

func (h *Handler) rawQuery(w http.ResponseWriter, r *http.Request) {
	var req rawQueryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "query is required"})
		return
	}
	rows, err := h.store.ExecuteRawQuery(r.Context(), req.Query, req.Args...)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Export(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) importDoc(w http.ResponseWriter, r *http.Request) {
	var doc store.ExportDocument
	if !h.decode(w, r, &doc) {
		return
	}
	h.writeNoContent(w, h.store.Import(r.Context(), &doc))
}
