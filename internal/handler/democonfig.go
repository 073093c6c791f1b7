package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"voicedesk/internal/domain"
	"voicedesk/internal/service"
	"voicedesk/internal/store"
)

// ConfigHandler handles aggregate-level demo config requests.
type ConfigHandler struct {
	svc    *service.DemoConfigService
	logger *zap.Logger
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(svc *service.DemoConfigService, logger *zap.Logger) *ConfigHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandler{svc: svc, logger: logger}
}

// Register adds the aggregate routes to the mux.
func (h *ConfigHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/configs/active", h.GetActiveBundle)
	mux.HandleFunc("GET /api/configs/{id}/bundle", h.GetBundle)
	mux.HandleFunc("GET /api/configs/slug/{slug}/bundle", h.GetBundleBySlug)
	mux.HandleFunc("POST /api/configs", h.CreateBundle)
	mux.HandleFunc("PATCH /api/configs/{id}", h.UpdateBundle)
	mux.HandleFunc("POST /api/configs/{id}/activate", h.Activate)
	mux.HandleFunc("POST /api/configs/{id}/default", h.MakeDefault)
	mux.HandleFunc("POST /api/configs/{id}/duplicate", h.Duplicate)
	mux.HandleFunc("GET /api/configs/{id}/export", h.Export)
	mux.HandleFunc("POST /api/configs/import", h.Import)
	mux.HandleFunc("DELETE /api/configs/{id}", h.Delete)
}

// GetBundle returns the fully assembled aggregate.
func (h *ConfigHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.GetBundle(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if bundle == nil {
		h.writeError(w, "demo config not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, bundle, http.StatusOK)
}

// GetBundleBySlug returns the aggregate for a URL slug.
func (h *ConfigHandler) GetBundleBySlug(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.GetBundleBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if bundle == nil {
		h.writeError(w, "demo config not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, bundle, http.StatusOK)
}

// GetActiveBundle returns the active aggregate, falling back to the default.
func (h *ConfigHandler) GetActiveBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.GetActiveBundle(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if bundle == nil {
		h.writeError(w, "no demo config available", http.StatusNotFound)
		return
	}
	h.writeJSON(w, bundle, http.StatusOK)
}

// CreateBundle creates a new aggregate.
func (h *ConfigHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var bundle domain.DemoConfigBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		h.writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.svc.Create(r.Context(), &bundle)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"id": id}, http.StatusCreated)
}

// UpdateBundle applies a partial aggregate update.
func (h *ConfigHandler) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	var u domain.DemoConfigBundleUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.Update(r.Context(), r.PathValue("id"), u); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate makes this config the single active one.
func (h *ConfigHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SetActive(r.Context(), r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MakeDefault promotes this config to the single fallback default.
func (h *ConfigHandler) MakeDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SetDefault(r.Context(), r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// duplicateRequest optionally names the copy.
type duplicateRequest struct {
	Name string `json:"name,omitempty"`
}

// Duplicate copies an aggregate under a fresh id.
func (h *ConfigHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	id, err := h.svc.Duplicate(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"id": id}, http.StatusCreated)
}

// Export returns a portable aggregate document.
func (h *ConfigHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=demo-config.json")
	h.writeJSON(w, doc, http.StatusOK)
}

// Import creates a new aggregate from a portable document.
func (h *ConfigHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc service.ConfigExport
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.svc.Import(r.Context(), &doc)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"id": id}, http.StatusCreated)
}

// Delete removes an aggregate. The default config is refused.
func (h *ConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConfigHandler) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

func (h *ConfigHandler) writeError(w http.ResponseWriter, msg string, status int) {
	h.writeJSON(w, map[string]string{"error": msg}, status)
}

func (h *ConfigHandler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case store.IsValidation(err):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case store.IsConstraint(err):
		h.writeError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("config operation failed", zap.Error(err))
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
