package remote

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
	"voicedesk/internal/store/httpapi"
	"voicedesk/internal/store/sqlite"
)

// newTestRemote serves a real embedded store over httptest and returns
// a remote adapter pointed at it, so every call crosses the wire.
func newTestRemote(t *testing.T) *Store {
	t.Helper()
	backing, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { backing.Close() })

	srv := httptest.NewServer(httpapi.New(backing, nil).Router())
	t.Cleanup(srv.Close)

	r := New(Options{BaseURL: srv.URL})
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRemotePatientRoundtrip(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	p := &domain.Patient{
		Phone:             "+15550001111",
		ParentName:        "Maria Lopez",
		PreferredLanguage: "es",
	}
	id, err := r.CreatePatient(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	// The create backfills the entity's id like the embedded backend does.
	assert.Equal(t, id, p.ID)

	got, err := r.GetPatient(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Maria Lopez", got.ParentName)

	byPhone, err := r.GetPatientByPhone(ctx, "+15550001111")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, id, byPhone.ID)

	// Absent rows come back (nil, nil), not a transport error.
	missing, err := r.GetPatient(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRemoteErrorsKeepTheirType(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	_, err := r.CreatePatient(ctx, &domain.Patient{Phone: "+15550002222", ParentName: "A"})
	require.NoError(t, err)
	_, err = r.CreatePatient(ctx, &domain.Patient{Phone: "+15550002222", ParentName: "B"})
	require.Error(t, err)
	assert.True(t, store.IsConstraint(err), "409 should round-trip as a constraint error")

	notes := "x"
	err = r.UpdatePatient(ctx, "no-such-id", domain.PatientUpdate{Notes: &notes})
	require.Error(t, err)
	assert.True(t, store.IsValidation(err), "400 should round-trip as a validation error")
}

func TestRemoteUnreachableIsTransportError(t *testing.T) {
	r := New(Options{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Timeout: 250 * time.Millisecond,
	})
	defer r.Close()

	_, err := r.GetPatient(context.Background(), "any")
	require.Error(t, err)
	assert.True(t, store.IsTransport(err))
}

func TestRemoteAppointmentsAndLinks(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	patientID, err := r.CreatePatient(ctx, &domain.Patient{Phone: "+15550003333", ParentName: "Ana Reyes"})
	require.NoError(t, err)
	childID, err := r.CreateChild(ctx, &domain.Child{PatientID: patientID, Name: "Leo", Age: 5})
	require.NoError(t, err)

	when := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	apptID, err := r.CreateAppointment(ctx, &domain.Appointment{
		BookingID: "BK-R-1",
		PatientID: patientID,
		Time:      when,
		Type:      domain.AppointmentCleaning,
		Status:    domain.AppointmentPending,
	})
	require.NoError(t, err)
	require.NoError(t, r.LinkAppointmentChild(ctx, apptID, childID))

	appt, err := r.GetAppointmentByBookingID(ctx, "BK-R-1")
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.True(t, appt.Time.Equal(when))
	assert.Equal(t, []string{childID}, appt.ChildIDs)

	// Time-window filters travel as query parameters.
	from := when.Add(-time.Hour)
	to := when.Add(time.Hour)
	inWindow, err := r.ListAppointments(ctx, store.AppointmentFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, inWindow, 1)

	later := when.Add(2 * time.Hour)
	outside, err := r.ListAppointments(ctx, store.AppointmentFilter{From: &later})
	require.NoError(t, err)
	assert.Empty(t, outside)

	require.NoError(t, r.UnlinkAppointmentChild(ctx, apptID, childID))
	links, err := r.ListAppointmentChildren(ctx, apptID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestRemoteConversationWithAudio(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	convID, err := r.CreateConversation(ctx, &domain.Conversation{
		PhoneNumber: "+15550004444",
		Direction:   domain.DirectionInbound,
		Provider:    domain.ProviderOpenAI,
		StartedAt:   time.Now().UTC(),
		Metadata:    map[string]any{"campaign": "summer"},
	})
	require.NoError(t, err)

	audio := []byte{0x00, 0x01, 0xFE, 0xFF}
	_, err = r.CreateTurn(ctx, &domain.ConversationTurn{
		ConversationID: convID,
		TurnNumber:     1,
		Role:           domain.RoleUser,
		ContentType:    domain.ContentAudio,
		Audio:          audio,
	})
	require.NoError(t, err)

	turns, err := r.ListTurns(ctx, convID)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	// Raw bytes survive the base64 JSON transport untouched.
	assert.Equal(t, audio, turns[0].Audio)

	conv, err := r.GetConversation(ctx, convID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "summer", conv.Metadata["campaign"])
}

func TestRemoteMetricsAndDemoConfig(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	convID, err := r.CreateConversation(ctx, &domain.Conversation{
		PhoneNumber: "+15550005555",
		Direction:   domain.DirectionOutbound,
		Provider:    domain.ProviderGemini,
		StartedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, r.UpsertCallMetrics(ctx, &domain.CallMetrics{
		ConversationID:  convID,
		Outcome:         domain.CallSuccess,
		DurationSeconds: 90,
	}))
	m, err := r.GetCallMetrics(ctx, convID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 90, m.DurationSeconds)

	configID, err := r.CreateDemoConfig(ctx, &domain.DemoConfig{Slug: "remote-demo", Name: "Remote Demo"})
	require.NoError(t, err)
	require.NoError(t, r.UpsertToolConfig(ctx, &domain.ToolConfig{
		ConfigID: configID,
		ToolName: "book_appointment",
		Type:     domain.ToolPredefined,
		Enabled:  true,
	}))

	bySlug, err := r.GetDemoConfigBySlug(ctx, "remote-demo")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, configID, bySlug.ID)

	tools, err := r.ListToolConfigs(ctx, configID)
	require.NoError(t, err)
	require.Len(t, tools, 1)

	require.NoError(t, r.DeleteToolConfig(ctx, configID, "book_appointment"))
	tools, err = r.ListToolConfigs(ctx, configID)
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestRemoteTransactionsAndAdmin(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	require.NoError(t, r.Begin(ctx))
	id, err := r.CreatePatient(ctx, &domain.Patient{Phone: "+15550006666", ParentName: "Tx Test"})
	require.NoError(t, err)
	require.NoError(t, r.Rollback(ctx))

	gone, err := r.GetPatient(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	require.NoError(t, r.Begin(ctx))
	_, err = r.CreatePatient(ctx, &domain.Patient{Phone: "+15550006666", ParentName: "Tx Test"})
	require.NoError(t, err)
	require.NoError(t, r.Commit(ctx))

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["patients"])

	rows, err := r.ExecuteRawQuery(ctx, `SELECT parent_name FROM patients`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tx Test", rows[0]["parent_name"])
}

func TestRemoteExportImport(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	_, err := r.CreatePatient(ctx, &domain.Patient{Phone: "+15550007777", ParentName: "Export Test"})
	require.NoError(t, err)

	doc, err := r.Export(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Patients, 1)

	// Importing into a second deployment replaces its operational data.
	other := newTestRemote(t)
	_, err = other.CreatePatient(ctx, &domain.Patient{Phone: "+15559990000", ParentName: "Old Data"})
	require.NoError(t, err)
	require.NoError(t, other.Import(ctx, doc))

	patients, err := other.ListPatients(ctx, store.PatientFilter{})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Export Test", patients[0].ParentName)
}
