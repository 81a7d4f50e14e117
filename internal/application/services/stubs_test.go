package services

import (
	"context"
	"errors"
	"time"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
)

// In-memory fakes for the service tests. Single-goroutine use only.

type stubPatientRepo struct {
	patients map[string]*entities.Patient
	byPhone  *entities.Patient
	err      error
}

func (r *stubPatientRepo) GetByID(_ context.Context, id string) (*entities.Patient, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.patients[id]
	if !ok {
		return nil, errors.New("patient not found")
	}
	return p, nil
}

func (r *stubPatientRepo) FindByPhone(_ context.Context, _ string) (*entities.Patient, error) {
	return r.byPhone, r.err
}

type stubSurgeryRepo struct {
	surgery *entities.Surgery
	err     error
}

func (r *stubSurgeryRepo) GetByID(_ context.Context, _ string) (*entities.Surgery, error) {
	return r.surgery, r.err
}

type stubFollowUpRepo struct {
	active     *entities.FollowUp
	duePending []*entities.FollowUp
	inProgress []*entities.FollowUp
	updated    []*entities.FollowUp
	err        error
}

func (r *stubFollowUpRepo) GetByID(_ context.Context, _ string) (*entities.FollowUp, error) {
	return r.active, r.err
}

func (r *stubFollowUpRepo) FindActiveByPatient(_ context.Context, _ string) (*entities.FollowUp, error) {
	return r.active, r.err
}

func (r *stubFollowUpRepo) ListDuePending(_ context.Context, _ time.Time) ([]*entities.FollowUp, error) {
	return r.duePending, r.err
}

func (r *stubFollowUpRepo) ListInProgress(_ context.Context) ([]*entities.FollowUp, error) {
	return r.inProgress, r.err
}

func (r *stubFollowUpRepo) Update(_ context.Context, followUp *entities.FollowUp) error {
	r.updated = append(r.updated, followUp)
	return nil
}

type stubResponseRepo struct {
	latest   *entities.FollowUpResponse
	created  []*entities.FollowUpResponse
	updated  []*entities.FollowUpResponse
	alerted  []string
	err      error
	alertErr error
}

func (r *stubResponseRepo) LatestByFollowUp(_ context.Context, _ string) (*entities.FollowUpResponse, error) {
	return r.latest, r.err
}

func (r *stubResponseRepo) Create(_ context.Context, response *entities.FollowUpResponse) error {
	r.created = append(r.created, response)
	return nil
}

func (r *stubResponseRepo) Update(_ context.Context, response *entities.FollowUpResponse) error {
	r.updated = append(r.updated, response)
	return nil
}

func (r *stubResponseRepo) MarkDoctorAlerted(_ context.Context, responseID string, _ time.Time) error {
	if r.alertErr != nil {
		return r.alertErr
	}
	r.alerted = append(r.alerted, responseID)
	return nil
}

type sentText struct {
	to   string
	body string
}

type stubMessenger struct {
	texts   []sentText
	alerts  []providers.DoctorAlert
	sendErr error
}

func (m *stubMessenger) SendText(_ context.Context, to string, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.texts = append(m.texts, sentText{to: to, body: body})
	return nil
}

func (m *stubMessenger) SendTemplate(_ context.Context, _ string, _ string, _ string, _ []string) error {
	return nil
}

func (m *stubMessenger) MarkRead(_ context.Context, _ string) error {
	return nil
}

func (m *stubMessenger) SendDoctorAlert(_ context.Context, alert providers.DoctorAlert) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *stubMessenger) lastText() string {
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1].body
}

type stubAssessor struct {
	assessment *providers.RiskAssessment
	err        error
	inputs     []providers.AssessmentInput
}

func (a *stubAssessor) Assess(_ context.Context, input providers.AssessmentInput) (*providers.RiskAssessment, error) {
	a.inputs = append(a.inputs, input)
	return a.assessment, a.err
}

type stubPusher struct {
	notified []string
}

func (p *stubPusher) NotifyDoctor(_ context.Context, doctorID string, _ *entities.PushNotification) error {
	p.notified = append(p.notified, doctorID)
	return nil
}

type publishedEvent struct {
	channel string
	event   *entities.FollowUpEvent
}

type stubBus struct {
	published []publishedEvent
}

func (b *stubBus) Publish(_ context.Context, channel string, event *entities.FollowUpEvent) error {
	b.published = append(b.published, publishedEvent{channel: channel, event: event})
	return nil
}

func (b *stubBus) Subscribe(_ context.Context, _ string) (<-chan *entities.FollowUpEvent, error) {
	return nil, nil
}

func (b *stubBus) Unsubscribe(_ context.Context, _ string) error { return nil }

func (b *stubBus) Close() error { return nil }
