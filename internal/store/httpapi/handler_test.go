package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store/sqlite"
)

func newTestRouter(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, nil).Router(), st
}

// The full route table must register on one mux; ServeMux panics on
// overlapping patterns, so building the router is itself the assertion.
func TestRouterRegistersAllRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNaturalKeyLookups(t *testing.T) {
	h, st := newTestRouter(t)
	ctx := context.Background()

	patientID, err := st.CreatePatient(ctx, &domain.Patient{
		Phone:      "+15557770000",
		ParentName: "Maria Lopez",
	})
	require.NoError(t, err)
	configID, err := st.CreateDemoConfig(ctx, &domain.DemoConfig{
		Slug: "route-demo",
		Name: "Route Demo",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/patients/by-phone?phone="+url.QueryEscape("+15557770000"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, patientID, p.ID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/demo-configs/by-slug?slug=route-demo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var c domain.DemoConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, configID, c.ID)

	// The id wildcards still match alongside the literal lookup paths.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/"+patientID+"/children", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments/by-booking?booking_id=BK-NONE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
