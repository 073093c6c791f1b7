package httpapi

import (
	"net/http"
	"strconv"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

func (h *Handler) getConversation(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if c == nil {
		h.writeNotFound(w, "conversation")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) listConversations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ConversationFilter{
		PatientID:   q.Get("patient_id"),
		PhoneNumber: q.Get("phone_number"),
		Direction:   domain.Direction(q.Get("direction")),
		Provider:    domain.Provider(q.Get("provider")),
	}
	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid active flag: " + err.Error()})
			return
		}
		filter.Active = &active
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid limit: " + err.Error()})
			return
		}
		filter.Limit = limit
	}
	conversations, err := h.store.ListConversations(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *Handler) createConversation(w http.ResponseWriter, r *http.Request) {
	var c domain.Conversation
	if !h.decode(w, r, &c) {
		return
	}
	id, err := h.store.CreateConversation(r.Context(), &c)
	h.writeID(w, id, err)
}

func (h *Handler) updateConversation(w http.ResponseWriter, r *http.Request) {
	var u domain.ConversationUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateConversation(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deleteConversation(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteConversation(r.Context(), r.PathValue("id")))
}

func (h *Handler) createTurn(w http.ResponseWriter, r *http.Request) {
	var t domain.ConversationTurn
	if !h.decode(w, r, &t) {
		return
	}
	id, err := h.store.CreateTurn(r.Context(), &t)
	h.writeID(w, id, err)
}

func (h *Handler) listTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.store.ListTurns(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (h *Handler) createFunctionCall(w http.ResponseWriter, r *http.Request) {
	var f domain.FunctionCallLog
	if !h.decode(w, r, &f) {
		return
	}
	id, err := h.store.CreateFunctionCall(r.Context(), &f)
	h.writeID(w, id, err)
}

func (h *Handler) updateFunctionCall(w http.ResponseWriter, r *http.Request) {
	var u domain.FunctionCallUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateFunctionCall(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) listFunctionCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := h.store.ListFunctionCalls(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"function_calls": calls})
}

func (h *Handler) getCallMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetCallMetrics(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if m == nil {
		h.writeNotFound(w, "call metrics")
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) upsertCallMetrics(w http.ResponseWriter, r *http.Request) {
	var m domain.CallMetrics
	if !h.decode(w, r, &m) {
		return
	}
	m.ConversationID = r.PathValue("id")
	h.writeNoContent(w, h.store.UpsertCallMetrics(r.Context(), &m))
}

func (h *Handler) createSkillLog(w http.ResponseWriter, r *http.Request) {
	var l domain.SkillExecutionLog
	if !h.decode(w, r, &l) {
		return
	}
	id, err := h.store.CreateSkillLog(r.Context(), &l)
	h.writeID(w, id, err)
}

func (h *Handler) listSkillLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.ListSkillLogs(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"skill_logs": logs})
}

func (h *Handler) getTestScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetTestScenario(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if sc == nil {
		h.writeNotFound(w, "test scenario")
		return
	}
	h.writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) listTestScenarios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TestScenarioFilter{
		Category: q.Get("category"),
		Status:   domain.ScenarioStatus(q.Get("status")),
	}
	scenarios, err := h.store.ListTestScenarios(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"test_scenarios": scenarios})
}

func (h *Handler) createTestScenario(w http.ResponseWriter, r *http.Request) {
	var sc domain.TestScenario
	if !h.decode(w, r, &sc) {
		return
	}
	id, err := h.store.CreateTestScenario(r.Context(), &sc)
	h.writeID(w, id, err)
}

func (h *Handler) updateTestScenario(w http.ResponseWriter, r *http.Request) {
	var u domain.TestScenarioUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateTestScenario(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deleteTestScenario(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteTestScenario(r.Context(), r.PathValue("id")))
}

func (h *Handler) createTestExecution(w http.ResponseWriter, r *http.Request) {
	var e domain.TestExecution
	if !h.decode(w, r, &e) {
		return
	}
	id, err := h.store.CreateTestExecution(r.Context(), &e)
	h.writeID(w, id, err)
}

func (h *Handler) listTestExecutions(w http.ResponseWriter, r *http.Request) {
	executions, err := h.store.ListTestExecutions(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"test_executions": executions})
}

func (h *Handler) appendAudit(w http.ResponseWriter, r *http.Request) {
	var rec domain.AuditRecord
	if !h.decode(w, r, &rec) {
		return
	}
	id, err := h.store.AppendAudit(r.Context(), &rec)
	h.writeID(w, id, err)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AuditFilter{
		TableName: q.Get("table_name"),
		RecordID:  q.Get("record_id"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid limit: " + err.Error()})
			return
		}
		filter.Limit = limit
	}
	records, err := h.store.ListAudit(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"audit_records": records})
}
