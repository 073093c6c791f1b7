package httpapi

import (
	"net/http"

	"voicedesk/internal/domain"
)

func (h *Handler) getDemoConfig(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetDemoConfig(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if c == nil {
		h.writeNotFound(w, "demo config")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) getDemoConfigBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetDemoConfigBySlug(r.Context(), r.URL.Query().Get("slug"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if c == nil {
		h.writeNotFound(w, "demo config")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) listDemoConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.ListDemoConfigs(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"demo_configs": configs})
}

func (h *Handler) createDemoConfig(w http.ResponseWriter, r *http.Request) {
	var c domain.DemoConfig
	if !h.decode(w, r, &c) {
		return
	}
	id, err := h.store.CreateDemoConfig(r.Context(), &c)
	h.writeID(w, id, err)
}

func (h *Handler) updateDemoConfig(w http.ResponseWriter, r *http.Request) {
	var u domain.DemoConfigUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateDemoConfig(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deleteDemoConfig(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteDemoConfig(r.Context(), r.PathValue("id")))
}

func (h *Handler) getBusinessProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetBusinessProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if p == nil {
		h.writeNotFound(w, "business profile")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) upsertBusinessProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.BusinessProfile
	if !h.decode(w, r, &p) {
		return
	}
	p.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertBusinessProfile(r.Context(), &p))
}

func (h *Handler) getAgentConfig(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAgentConfig(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if a == nil {
		h.writeNotFound(w, "agent config")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) upsertAgentConfig(w http.ResponseWriter, r *http.Request) {
	var a domain.AgentConfig
	if !h.decode(w, r, &a) {
		return
	}
	a.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertAgentConfig(r.Context(), &a))
}

func (h *Handler) getScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetScenario(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if sc == nil {
		h.writeNotFound(w, "scenario")
		return
	}
	h.writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) upsertScenario(w http.ResponseWriter, r *http.Request) {
	var sc domain.Scenario
	if !h.decode(w, r, &sc) {
		return
	}
	sc.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertScenario(r.Context(), &sc))
}

func (h *Handler) getUILabels(w http.ResponseWriter, r *http.Request) {
	l, err := h.store.GetUILabels(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if l == nil {
		h.writeNotFound(w, "ui labels")
		return
	}
	h.writeJSON(w, http.StatusOK, l)
}

func (h *Handler) upsertUILabels(w http.ResponseWriter, r *http.Request) {
	var l domain.UILabels
	if !h.decode(w, r, &l) {
		return
	}
	l.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertUILabels(r.Context(), &l))
}

func (h *Handler) listToolConfigs(w http.ResponseWriter, r *http.Request) {
	tools, err := h.store.ListToolConfigs(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"tool_configs": tools})
}

func (h *Handler) upsertToolConfig(w http.ResponseWriter, r *http.Request) {
	var t domain.ToolConfig
	if !h.decode(w, r, &t) {
		return
	}
	t.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertToolConfig(r.Context(), &t))
}

func (h *Handler) deleteToolConfig(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteToolConfig(r.Context(), r.PathValue("id"), r.PathValue("toolName")))
}

func (h *Handler) listSMSTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListSMSTemplates(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"sms_templates": templates})
}

func (h *Handler) upsertSMSTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.SMSTemplate
	if !h.decode(w, r, &t) {
		return
	}
	t.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertSMSTemplate(r.Context(), &t))
}

func (h *Handler) deleteSMSTemplate(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteSMSTemplate(r.Context(),
		r.PathValue("id"), r.PathValue("type"), r.PathValue("name")))
}

func (h *Handler) listMockDataPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.store.ListMockDataPools(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"mock_data_pools": pools})
}

func (h *Handler) upsertMockDataPool(w http.ResponseWriter, r *http.Request) {
	var p domain.MockDataPool
	if !h.decode(w, r, &p) {
		return
	}
	p.ConfigID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertMockDataPool(r.Context(), &p))
}

func (h *Handler) deleteMockDataPool(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteMockDataPool(r.Context(), r.PathValue("id"), r.PathValue("poolType")))
}
