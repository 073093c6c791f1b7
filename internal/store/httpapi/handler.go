// Package httpapi exposes the store contract over HTTP for the process
// that owns the database. Remote-adapter clients (browser demo UI,
// telephony server) all observe the one dataset this handler fronts.
//
// Wire conventions: point lookups return the entity or 404 with an
// {error} body; list endpoints return {<plural>: [...]}; creates
// return {id}; mutations return 204 on success or an {error} body.
// Natural-key lookups are literal paths carrying the key as a query
// parameter (e.g. /api/patients/by-phone?phone=...), keeping them out
// of the {id} wildcards' match space.
package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"voicedesk/internal/store"
)

// Handler serves the store contract over HTTP.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

// New creates a handler backed by the given store adapter.
func New(st store.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, logger: logger}
}

// Router builds a mux with the full route table.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

// Register adds every contract route to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.health)

	// Patients and children
	mux.HandleFunc("GET /api/patients", h.listPatients)
	mux.HandleFunc("POST /api/patients", h.createPatient)
	mux.HandleFunc("GET /api/patients/{id}", h.getPatient)
	mux.HandleFunc("PATCH /api/patients/{id}", h.updatePatient)
	mux.HandleFunc("DELETE /api/patients/{id}", h.deletePatient)
	mux.HandleFunc("GET /api/patients/by-phone", h.getPatientByPhone)
	mux.HandleFunc("GET /api/patients/{id}/children", h.listChildren)
	mux.HandleFunc("POST /api/children", h.createChild)
	mux.HandleFunc("GET /api/children/{id}", h.getChild)
	mux.HandleFunc("PATCH /api/children/{id}", h.updateChild)
	mux.HandleFunc("DELETE /api/children/{id}", h.deleteChild)

	// Appointments
	mux.HandleFunc("GET /api/appointments", h.listAppointments)
	mux.HandleFunc("POST /api/appointments", h.createAppointment)
	mux.HandleFunc("GET /api/appointments/{id}", h.getAppointment)
	mux.HandleFunc("PATCH /api/appointments/{id}", h.updateAppointment)
	mux.HandleFunc("DELETE /api/appointments/{id}", h.deleteAppointment)
	mux.HandleFunc("GET /api/appointments/by-booking", h.getAppointmentByBookingID)
	mux.HandleFunc("GET /api/appointments/{id}/children", h.listAppointmentChildren)
	mux.HandleFunc("PUT /api/appointments/{id}/children/{childId}", h.linkAppointmentChild)
	mux.HandleFunc("DELETE /api/appointments/{id}/children/{childId}", h.unlinkAppointmentChild)

	// Conversations, turns, function calls, metrics, skill logs
	mux.HandleFunc("GET /api/conversations", h.listConversations)
	mux.HandleFunc("POST /api/conversations", h.createConversation)
	mux.HandleFunc("GET /api/conversations/{id}", h.getConversation)
	mux.HandleFunc("PATCH /api/conversations/{id}", h.updateConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", h.deleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/turns", h.listTurns)
	mux.HandleFunc("POST /api/turns", h.createTurn)
	mux.HandleFunc("GET /api/conversations/{id}/function-calls", h.listFunctionCalls)
	mux.HandleFunc("POST /api/function-calls", h.createFunctionCall)
	mux.HandleFunc("PATCH /api/function-calls/{id}", h.updateFunctionCall)
	mux.HandleFunc("GET /api/conversations/{id}/metrics", h.getCallMetrics)
	mux.HandleFunc("PUT /api/conversations/{id}/metrics", h.upsertCallMetrics)
	mux.HandleFunc("GET /api/conversations/{id}/skill-logs", h.listSkillLogs)
	mux.HandleFunc("POST /api/skill-logs", h.createSkillLog)

	// Test scenarios and executions
	mux.HandleFunc("GET /api/test-scenarios", h.listTestScenarios)
	mux.HandleFunc("POST /api/test-scenarios", h.createTestScenario)
	mux.HandleFunc("GET /api/test-scenarios/{id}", h.getTestScenario)
	mux.HandleFunc("PATCH /api/test-scenarios/{id}", h.updateTestScenario)
	mux.HandleFunc("DELETE /api/test-scenarios/{id}", h.deleteTestScenario)
	mux.HandleFunc("GET /api/test-scenarios/{id}/executions", h.listTestExecutions)
	mux.HandleFunc("POST /api/test-executions", h.createTestExecution)

	// Audit trail
	mux.HandleFunc("GET /api/audit", h.listAudit)
	mux.HandleFunc("POST /api/audit", h.appendAudit)

	// Demo configs and satellites
	mux.HandleFunc("GET /api/demo-configs", h.listDemoConfigs)
	mux.HandleFunc("POST /api/demo-configs", h.createDemoConfig)
	mux.HandleFunc("GET /api/demo-configs/{id}", h.getDemoConfig)
	mux.HandleFunc("PATCH /api/demo-configs/{id}", h.updateDemoConfig)
	mux.HandleFunc("DELETE /api/demo-configs/{id}", h.deleteDemoConfig)
	mux.HandleFunc("GET /api/demo-configs/by-slug", h.getDemoConfigBySlug)
	mux.HandleFunc("GET /api/demo-configs/{id}/business-profile", h.getBusinessProfile)
	mux.HandleFunc("PUT /api/demo-configs/{id}/business-profile", h.upsertBusinessProfile)
	mux.HandleFunc("GET /api/demo-configs/{id}/agent-config", h.getAgentConfig)
	mux.HandleFunc("PUT /api/demo-configs/{id}/agent-config", h.upsertAgentConfig)
	mux.HandleFunc("GET /api/demo-configs/{id}/scenario", h.getScenario)
	mux.HandleFunc("PUT /api/demo-configs/{id}/scenario", h.upsertScenario)
	mux.HandleFunc("GET /api/demo-configs/{id}/ui-labels", h.getUILabels)
	mux.HandleFunc("PUT /api/demo-configs/{id}/ui-labels", h.upsertUILabels)
	mux.HandleFunc("GET /api/demo-configs/{id}/tools", h.listToolConfigs)
	mux.HandleFunc("PUT /api/demo-configs/{id}/tools", h.upsertToolConfig)
	mux.HandleFunc("DELETE /api/demo-configs/{id}/tools/{toolName}", h.deleteToolConfig)
	mux.HandleFunc("GET /api/demo-configs/{id}/sms-templates", h.listSMSTemplates)
	mux.HandleFunc("PUT /api/demo-configs/{id}/sms-templates", h.upsertSMSTemplate)
	mux.HandleFunc("DELETE /api/demo-configs/{id}/sms-templates/{type}/{name}", h.deleteSMSTemplate)
	mux.HandleFunc("GET /api/demo-configs/{id}/mock-data", h.listMockDataPools)
	mux.HandleFunc("PUT /api/demo-configs/{id}/mock-data", h.upsertMockDataPool)
	mux.HandleFunc("DELETE /api/demo-configs/{id}/mock-data/{poolType}", h.deleteMockDataPool)

	// Transactions, admin, snapshots
	mux.HandleFunc("POST /api/tx/begin", h.txBegin)
	mux.HandleFunc("POST /api/tx/commit", h.txCommit)
	mux.HandleFunc("POST /api/tx/rollback", h.txRollback)
	mux.HandleFunc("POST /api/query", h.rawQuery)
	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("GET /api/export", h.export)
	mux.HandleFunc("POST /api/import", h.importDoc)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

// writeErr maps the store error taxonomy to HTTP statuses.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case store.IsConstraint(err):
		status = http.StatusConflict
	case store.IsValidation(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("store operation failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}

// writeNotFound is the 404 side of the point-lookup contract: the
// remote adapter translates it back to a nil result.
func (h *Handler) writeNotFound(w http.ResponseWriter, what string) {
	h.writeJSON(w, http.StatusNotFound, errorBody{Error: what + " not found"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeID(w http.ResponseWriter, id string, err error) {
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) writeNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
