package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

type escalationFixture struct {
	service   *EscalationService
	patients  *stubPatientRepo
	surgeries *stubSurgeryRepo
	followUps *stubFollowUpRepo
	responses *stubResponseRepo
	messenger *stubMessenger
	bus       *stubBus
	now       time.Time
}

func newEscalationFixture() *escalationFixture {
	f := &escalationFixture{
		patients:  &stubPatientRepo{patients: map[string]*entities.Patient{"pat-1": testPatient()}},
		surgeries: &stubSurgeryRepo{surgery: &entities.Surgery{ID: "sur-1", Type: entities.SurgeryFissure}},
		followUps: &stubFollowUpRepo{},
		responses: &stubResponseRepo{},
		messenger: &stubMessenger{},
		bus:       &stubBus{},
		now:       time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC),
	}
	f.service = NewEscalationService(
		f.followUps, f.responses, f.patients, f.surgeries,
		f.messenger, f.bus,
		config.SchedulerConfig{NudgeAfter: 3 * time.Hour, AlertAfter: 12 * time.Hour, SweepInterval: time.Minute},
	)
	f.service.now = func() time.Time { return f.now }
	return f
}

func inProgressResponse(lastActivity time.Time) *entities.FollowUpResponse {
	r := &entities.FollowUpResponse{
		ID:                   "resp-1",
		FollowUpID:           "fu-1",
		DoctorID:             "doc-1",
		CurrentQuestionIndex: 2,
		UpdatedAt:            lastActivity,
	}
	r.AppendTurn(entities.TurnPatient, "sim", false, lastActivity)
	return r
}

func TestSweepNudgesAfterSilence(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	f.responses.latest = inProgressResponse(f.now.Add(-4 * time.Hour))

	require.NoError(t, f.service.Sweep(context.Background()))

	require.Len(t, f.messenger.texts, 1)
	assert.Contains(t, f.messenger.lastText(), "não terminou o questionário")
	require.Len(t, f.responses.updated, 1)
	assert.True(t, f.responses.updated[0].NudgeOutstanding())
	assert.Empty(t, f.messenger.alerts)
}

func TestSweepLeavesFreshConversationsAlone(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	f.responses.latest = inProgressResponse(f.now.Add(-30 * time.Minute))

	require.NoError(t, f.service.Sweep(context.Background()))

	assert.Empty(t, f.messenger.texts)
	assert.Empty(t, f.messenger.alerts)
}

func TestSweepDoesNotRepeatNudge(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	response := inProgressResponse(f.now.Add(-5 * time.Hour))
	response.AppendTurn(entities.TurnAssistant, msgNudge, true, f.now.Add(-1*time.Hour))
	f.responses.latest = response

	require.NoError(t, f.service.Sweep(context.Background()))

	assert.Empty(t, f.messenger.texts)
	assert.Empty(t, f.messenger.alerts)
}

func TestSweepAlertsDoctorAfterProlongedSilence(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	response := inProgressResponse(f.now.Add(-13 * time.Hour))
	response.AppendTurn(entities.TurnAssistant, msgNudge, true, f.now.Add(-13*time.Hour))
	response.UpdatedAt = f.now.Add(-13 * time.Hour)
	f.responses.latest = response

	require.NoError(t, f.service.Sweep(context.Background()))

	require.Len(t, f.messenger.alerts, 1)
	alert := f.messenger.alerts[0]
	assert.True(t, alert.Stalled)
	assert.Equal(t, "Maria Souza", alert.PatientName)
	assert.Equal(t, []string{"resp-1"}, f.responses.alerted)

	require.Len(t, f.bus.published, 1)
	assert.Equal(t, entities.FollowUpEventStalled, f.bus.published[0].event.Type)
}

func TestSweepAlertsDoctorOnlyOnce(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	response := inProgressResponse(f.now.Add(-14 * time.Hour))
	response.AppendTurn(entities.TurnAssistant, msgNudge, true, f.now.Add(-14*time.Hour))
	response.UpdatedAt = f.now.Add(-14 * time.Hour)
	response.DoctorAlerted = true
	f.responses.latest = response

	require.NoError(t, f.service.Sweep(context.Background()))

	assert.Empty(t, f.messenger.alerts)
	assert.Empty(t, f.bus.published)
}

func TestSweepSkipsFollowUpsWithoutRecord(t *testing.T) {
	f := newEscalationFixture()
	f.followUps.inProgress = []*entities.FollowUp{testFollowUp(entities.FollowUpStatusInProgress, 2)}
	f.responses.latest = nil

	require.NoError(t, f.service.Sweep(context.Background()))

	assert.Empty(t, f.messenger.texts)
	assert.Empty(t, f.messenger.alerts)
}
