package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/service"
	"voicedesk/internal/store/sqlite"
)

func newTestHandler(t *testing.T) (http.Handler, *service.DemoConfigService) {
	t.Helper()
	st, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := service.NewDemoConfigService(st, service.NewEventBus(), nil)
	mux := http.NewServeMux()
	NewConfigHandler(svc, nil).Register(mux)
	return mux, svc
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = int64(buf.Len())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchBundle(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/configs", domain.DemoConfigBundle{
		Config: domain.DemoConfig{Name: "Handler Demo"},
		AgentConfig: &domain.AgentConfig{
			AgentName:   "Riley",
			Temperature: 0.7,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"]
	require.NotEmpty(t, id)

	rec = doJSON(t, h, http.MethodGet, "/api/configs/"+id+"/bundle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bundle domain.DemoConfigBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	assert.Equal(t, "Handler Demo", bundle.Config.Name)
	assert.Equal(t, "handler-demo", bundle.Config.Slug)
	require.NotNil(t, bundle.AgentConfig)
	assert.Equal(t, "Riley", bundle.AgentConfig.AgentName)

	rec = doJSON(t, h, http.MethodGet, "/api/configs/slug/handler-demo/bundle", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/configs/slug/no-such-slug/bundle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateWithoutNameIsBadRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/configs", domain.DemoConfigBundle{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestActivateEndpoint(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.DemoConfigBundle{Config: domain.DemoConfig{Name: "First"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &domain.DemoConfigBundle{Config: domain.DemoConfig{Name: "Second"}})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/api/configs/"+first+"/activate", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/configs/"+second+"/activate", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/configs/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active domain.DemoConfigBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, second, active.Config.ID)

	rec = doJSON(t, h, http.MethodPost, "/api/configs/no-such-id/activate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMakeDefaultEndpoint(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.DemoConfigBundle{Config: domain.DemoConfig{Name: "First"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &domain.DemoConfigBundle{Config: domain.DemoConfig{Name: "Second"}})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/api/configs/"+first+"/default", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/configs/"+second+"/default", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// A PATCH carrying the lifecycle flags must not move them.
	on := true
	rec = doJSON(t, h, http.MethodPatch, "/api/configs/"+first, domain.DemoConfigBundleUpdate{
		Config: domain.DemoConfigUpdate{IsActive: &on, IsDefault: &on},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	configs, err := svc.List(ctx)
	require.NoError(t, err)
	var defaults []string
	for _, c := range configs {
		assert.False(t, c.IsActive)
		if c.IsDefault {
			defaults = append(defaults, c.ID)
		}
	}
	assert.Equal(t, []string{second}, defaults)

	rec = doJSON(t, h, http.MethodPost, "/api/configs/no-such-id/default", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateEndpoint(t *testing.T) {
	h, svc := newTestHandler(t)

	id, err := svc.Create(context.Background(), &domain.DemoConfigBundle{
		Config: domain.DemoConfig{Name: "Source"},
	})
	require.NoError(t, err)

	// No body: the copy name is derived from the source.
	rec := doJSON(t, h, http.MethodPost, "/api/configs/"+id+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/configs/"+id+"/duplicate", duplicateRequest{Name: "Named Copy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	copyRec := doJSON(t, h, http.MethodGet, "/api/configs/"+created["id"]+"/bundle", nil)
	var bundle domain.DemoConfigBundle
	require.NoError(t, json.Unmarshal(copyRec.Body.Bytes(), &bundle))
	assert.Equal(t, "Named Copy", bundle.Config.Name)
}

func TestExportImportEndpoints(t *testing.T) {
	h, svc := newTestHandler(t)

	id, err := svc.Create(context.Background(), &domain.DemoConfigBundle{
		Config: domain.DemoConfig{Name: "Portable"},
	})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/api/configs/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment"))

	req := httptest.NewRequest(http.MethodPost, "/api/configs/import", bytes.NewReader(rec.Body.Bytes()))
	imp := httptest.NewRecorder()
	h.ServeHTTP(imp, req)
	require.Equal(t, http.StatusCreated, imp.Code)

	configs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, configs, 2)
}

func TestDeleteDefaultIsRefused(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, &domain.DemoConfigBundle{Config: domain.DemoConfig{Name: "Default"}})
	require.NoError(t, err)
	require.NoError(t, svc.SetDefault(ctx, id))

	rec := doJSON(t, h, http.MethodDelete, "/api/configs/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot be deleted")
}
