package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

func TestExportImportRoundtrip(t *testing.T) {
	source := newTestStore(t)
	ctx := context.Background()

	patientID := createPatient(t, source, "+15553330000")
	childID, err := source.CreateChild(ctx, &domain.Child{PatientID: patientID, Name: "Sofia", Age: 7})
	require.NoError(t, err)
	apptID, err := source.CreateAppointment(ctx, &domain.Appointment{
		BookingID: "BK-EXP-1",
		PatientID: patientID,
		Time:      time.Now().Add(24 * time.Hour).UTC(),
		Type:      domain.AppointmentExam,
		Status:    domain.AppointmentConfirmed,
	})
	require.NoError(t, err)
	require.NoError(t, source.LinkAppointmentChild(ctx, apptID, childID))

	convID, err := source.CreateConversation(ctx, &domain.Conversation{
		PhoneNumber: "+15553330000",
		PatientID:   patientID,
		Direction:   domain.DirectionInbound,
		Provider:    domain.ProviderOpenAI,
		StartedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = source.CreateTurn(ctx, &domain.ConversationTurn{
		ConversationID: convID,
		TurnNumber:     1,
		Role:           domain.RoleAssistant,
		ContentType:    domain.ContentText,
		Text:           "Thanks for calling",
	})
	require.NoError(t, err)
	_, err = source.AppendAudit(ctx, &domain.AuditRecord{
		TableName: "appointments",
		RecordID:  apptID,
		Operation: domain.AuditInsert,
		Actor:     "agent",
	})
	require.NoError(t, err)

	doc, err := source.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.ExportVersion, doc.Version)
	require.Len(t, doc.Patients, 1)
	require.Len(t, doc.Children, 1)
	require.Len(t, doc.Appointments, 1)
	require.Len(t, doc.AppointmentChildren, 1)
	require.Len(t, doc.Conversations, 1)
	require.Len(t, doc.ConversationTurns, 1)
	require.Len(t, doc.AuditTrail, 1)

	target := newTestStore(t)
	// Pre-existing operational data is replaced by the import.
	createPatient(t, target, "+15559998888")
	require.NoError(t, target.Import(ctx, doc))

	patients, err := target.ListPatients(ctx, store.PatientFilter{})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "+15553330000", patients[0].Phone)

	appt, err := target.GetAppointmentByBookingID(ctx, "BK-EXP-1")
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, []string{childID}, appt.ChildIDs)

	turns, err := target.ListTurns(ctx, convID)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Thanks for calling", turns[0].Text)
}

func TestImportRejectsBadVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createPatient(t, s, "+15554440000")

	doc, err := s.Export(ctx)
	require.NoError(t, err)

	doc.Version = store.ExportVersion + 1
	err = s.Import(ctx, doc)
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))

	// A failed import leaves existing rows untouched.
	patients, err := s.ListPatients(ctx, store.PatientFilter{})
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}
