package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskWelcome                = "email:welcome"
	TaskWaitlistConfirmation   = "email:waitlist_confirmation"
	TaskConsultingNotification = "email:consulting_notification"
	TaskConsultingAck          = "email:consulting_ack"
)

type WelcomeEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
}

type WaitlistConfirmationPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

type ConsultingNotificationPayload struct {
	To      string `json:"to"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ConsultingAckPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

func newEmailTask(taskType string, payload any, queue string) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		data,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewWelcomeEmailTask(to, firstName string) (*asynq.Task, error) {
	return newEmailTask(TaskWelcome, WelcomeEmailPayload{To: to, FirstName: firstName}, QueueDefault)
}

func NewWaitlistConfirmationTask(to, name string) (*asynq.Task, error) {
	return newEmailTask(TaskWaitlistConfirmation, WaitlistConfirmationPayload{To: to, Name: name}, QueueDefault)
}

// NewConsultingNotificationTask goes to the critical queue: it is the team's
// only signal that a lead arrived.
func NewConsultingNotificationTask(p ConsultingNotificationPayload) (*asynq.Task, error) {
	return newEmailTask(TaskConsultingNotification, p, QueueCritical)
}

func NewConsultingAckTask(to, name string) (*asynq.Task, error) {
	return newEmailTask(TaskConsultingAck, ConsultingAckPayload{To: to, Name: name}, QueueDefault)
}
