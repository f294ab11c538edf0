package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/patternhub/internal/lib/email"
	"github.com/hibiken/asynq"
)

// decode unmarshals a task payload. Malformed payloads never succeed on
// retry, so they are marked to skip retries.
func decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// deliver runs send and logs the outcome. A returned error makes Asynq retry.
func (j *JobService) deliver(taskType, to string, send func() error) error {
	j.logger.Info().
		Str("type", taskType).
		Str("to", to).
		Msg("processing email task")

	if err := send(); err != nil {
		j.logger.Error().
			Err(err).
			Str("type", taskType).
			Str("to", to).
			Msg("failed to send email")
		return err
	}

	j.logger.Info().
		Str("type", taskType).
		Str("to", to).
		Msg("email sent")
	return nil
}

func (j *JobService) handleWelcomeEmailTask(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return j.deliver(t.Type(), p.To, func() error {
		return j.mailer.SendWelcomeEmail(p.To, p.FirstName)
	})
}

func (j *JobService) handleWaitlistConfirmationTask(_ context.Context, t *asynq.Task) error {
	var p WaitlistConfirmationPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return j.deliver(t.Type(), p.To, func() error {
		return j.mailer.SendWaitlistConfirmation(p.To, p.Name)
	})
}

func (j *JobService) handleConsultingNotificationTask(_ context.Context, t *asynq.Task) error {
	var p ConsultingNotificationPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return j.deliver(t.Type(), p.To, func() error {
		return j.mailer.SendConsultingNotification(p.To, email.ConsultingNotification{
			Name:    p.Name,
			Email:   p.Email,
			Company: p.Company,
			Role:    p.Role,
			Message: p.Message,
		})
	})
}

func (j *JobService) handleConsultingAckTask(_ context.Context, t *asynq.Task) error {
	var p ConsultingAckPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return j.deliver(t.Type(), p.To, func() error {
		return j.mailer.SendConsultingAck(p.To, p.Name)
	})
}
