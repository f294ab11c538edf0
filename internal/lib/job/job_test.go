package job

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/patternhub/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	calls        []string
	notification email.ConsultingNotification
	err          error
}

func (m *fakeMailer) record(call string) error {
	m.calls = append(m.calls, call)
	return m.err
}

func (m *fakeMailer) SendWelcomeEmail(to, firstName string) error {
	return m.record("welcome:" + to + ":" + firstName)
}

func (m *fakeMailer) SendWaitlistConfirmation(to, name string) error {
	return m.record("waitlist:" + to + ":" + name)
}

func (m *fakeMailer) SendConsultingNotification(to string, n email.ConsultingNotification) error {
	m.notification = n
	return m.record("notify:" + to)
}

func (m *fakeMailer) SendConsultingAck(to, name string) error {
	return m.record("ack:" + to + ":" + name)
}

func newTestJobService(m Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: m, logger: &logger}
}

func TestMux_DispatchesEveryTask(t *testing.T) {
	mailer := &fakeMailer{}
	mux := newTestJobService(mailer).Mux()
	ctx := context.Background()

	welcome, err := NewWelcomeEmailTask("ada@example.com", "Ada")
	require.NoError(t, err)
	waitlist, err := NewWaitlistConfirmationTask("bob@example.com", "Bob")
	require.NoError(t, err)
	notify, err := NewConsultingNotificationTask(ConsultingNotificationPayload{
		To:      "team@patternhub.dev",
		Name:    "Cy",
		Email:   "cy@example.com",
		Message: "Need help with retries",
	})
	require.NoError(t, err)
	ack, err := NewConsultingAckTask("cy@example.com", "Cy")
	require.NoError(t, err)

	for _, task := range []*asynq.Task{welcome, waitlist, notify, ack} {
		require.NoError(t, mux.ProcessTask(ctx, task), task.Type())
	}

	assert.Equal(t, []string{
		"welcome:ada@example.com:Ada",
		"waitlist:bob@example.com:Bob",
		"notify:team@patternhub.dev",
		"ack:cy@example.com:Cy",
	}, mailer.calls)
	assert.Equal(t, "cy@example.com", mailer.notification.Email)
	assert.Equal(t, "Need help with retries", mailer.notification.Message)
}

func TestHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	mux := newTestJobService(&fakeMailer{}).Mux()

	err := mux.ProcessTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandler_SendFailureIsReturned(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("provider down")}
	mux := newTestJobService(mailer).Mux()

	task, err := NewConsultingAckTask("cy@example.com", "Cy")
	require.NoError(t, err)

	err = mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
