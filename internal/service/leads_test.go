package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeadFixture(notify string) (*LeadService, *servicetest.Leads, *servicetest.Enqueuer, *servicetest.Tracker) {
	leads := servicetest.NewLeads()
	jobs := &servicetest.Enqueuer{}
	tracker := &servicetest.Tracker{}
	return NewLeadService(leads, jobs, tracker, notify, nopLogger()), leads, jobs, tracker
}

func TestJoinWaitlist(t *testing.T) {
	svc, leads, jobs, tracker := newLeadFixture("")
	ctx := context.Background()
	blank := "   "

	resp, err := svc.JoinWaitlist(ctx, &model.WaitlistRequest{Email: " Ada@Example.com ", Name: &blank})
	require.NoError(t, err)
	assert.False(t, resp.AlreadyRegistered)
	assert.Equal(t, "ada@example.com", resp.Signup.Email)
	assert.Nil(t, resp.Signup.Name)

	resp, err = svc.JoinWaitlist(ctx, &model.WaitlistRequest{Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.True(t, resp.AlreadyRegistered)

	assert.Len(t, leads.Signups, 1)
	assert.Equal(t, []string{job.TaskWaitlistConfirmation}, jobs.Types())
	assert.Equal(t, []string{"waitlist_joined", "waitlist_joined"}, tracker.Names())
	assert.Equal(t, true, tracker.Events[1].Properties["already_registered"])
}

func TestSubmitConsulting(t *testing.T) {
	svc, leads, jobs, tracker := newLeadFixture("team@example.com")
	company := " Acme "

	inq, err := svc.SubmitConsulting(context.Background(), &model.ConsultingRequest{
		Name:    " Grace ",
		Email:   "Grace@Example.com",
		Company: &company,
		Message: "  We need help migrating our services.  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", inq.Name)
	assert.Equal(t, "grace@example.com", inq.Email)
	require.NotNil(t, inq.Company)
	assert.Equal(t, "Acme", *inq.Company)
	assert.Len(t, leads.Inquiries, 1)

	require.Equal(t, []string{job.TaskConsultingNotification, job.TaskConsultingAck}, jobs.Types())

	var payload job.ConsultingNotificationPayload
	require.NoError(t, json.Unmarshal(jobs.Tasks[0].Payload(), &payload))
	assert.Equal(t, "team@example.com", payload.To)
	assert.Equal(t, "Acme", payload.Company)

	assert.Equal(t, []string{"consulting_submitted"}, tracker.Names())
}

func TestSubmitConsulting_NoRecipient(t *testing.T) {
	svc, _, jobs, _ := newLeadFixture("")

	_, err := svc.SubmitConsulting(context.Background(), &model.ConsultingRequest{
		Name:    "Grace",
		Email:   "grace@example.com",
		Message: "We need help migrating.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{job.TaskConsultingAck}, jobs.Types())
}
