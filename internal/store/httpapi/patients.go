package httpapi

import (
	"net/http"
	"time"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPatient(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if p == nil {
		h.writeNotFound(w, "patient")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) getPatientByPhone(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPatientByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if p == nil {
		h.writeNotFound(w, "patient")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	filter := store.PatientFilter{
		Language: r.URL.Query().Get("language"),
		Search:   r.URL.Query().Get("search"),
	}
	patients, err := h.store.ListPatients(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var p domain.Patient
	if !h.decode(w, r, &p) {
		return
	}
	id, err := h.store.CreatePatient(r.Context(), &p)
	h.writeID(w, id, err)
}

func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	var u domain.PatientUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdatePatient(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeletePatient(r.Context(), r.PathValue("id")))
}

func (h *Handler) getChild(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetChild(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if c == nil {
		h.writeNotFound(w, "child")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) listChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.store.ListChildren(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"children": children})
}

func (h *Handler) createChild(w http.ResponseWriter, r *http.Request) {
	var c domain.Child
	if !h.decode(w, r, &c) {
		return
	}
	id, err := h.store.CreateChild(r.Context(), &c)
	h.writeID(w, id, err)
}

func (h *Handler) updateChild(w http.ResponseWriter, r *http.Request) {
	var u domain.ChildUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateChild(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deleteChild(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteChild(r.Context(), r.PathValue("id")))
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAppointment(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if a == nil {
		h.writeNotFound(w, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) getAppointmentByBookingID(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAppointmentByBookingID(r.Context(), r.URL.Query().Get("booking_id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if a == nil {
		h.writeNotFound(w, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AppointmentFilter{
		PatientID: q.Get("patient_id"),
		Status:    domain.AppointmentStatus(q.Get("status")),
		Type:      domain.AppointmentType(q.Get("type")),
	}
	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if raw := q.Get(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + param + " timestamp: " + err.Error()})
				return
			}
			*dst = &t
		}
	}
	appointments, err := h.store.ListAppointments(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var a domain.Appointment
	if !h.decode(w, r, &a) {
		return
	}
	id, err := h.store.CreateAppointment(r.Context(), &a)
	h.writeID(w, id, err)
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	var u domain.AppointmentUpdate
	if !h.decode(w, r, &u) {
		return
	}
	h.writeNoContent(w, h.store.UpdateAppointment(r.Context(), r.PathValue("id"), u))
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.DeleteAppointment(r.Context(), r.PathValue("id")))
}

func (h *Handler) linkAppointmentChild(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.LinkAppointmentChild(r.Context(), r.PathValue("id"), r.PathValue("childId")))
}

func (h *Handler) unlinkAppointmentChild(w http.ResponseWriter, r *http.Request) {
	h.writeNoContent(w, h.store.UnlinkAppointmentChild(r.Context(), r.PathValue("id"), r.PathValue("childId")))
}

func (h *Handler) listAppointmentChildren(w http.ResponseWriter, r *http.Request) {
	childIDs, err := h.store.ListAppointmentChildren(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"child_ids": childIDs})
}
