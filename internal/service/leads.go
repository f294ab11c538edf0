package service

import (
	"context"
	"strings"

	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/deppfellow/patternhub/internal/lib/utils"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type LeadStore interface {
	CreateWaitlistSignup(ctx context.Context, email string, req *model.WaitlistRequest) (*model.WaitlistSignup, bool, error)
	CreateConsultingInquiry(ctx context.Context, req *model.ConsultingRequest) (*model.ConsultingInquiry, error)
}

type LeadService struct {
	leads       LeadStore
	jobs        Enqueuer
	analytics   EventTracker
	notifyEmail string
	logger      *zerolog.Logger
}

func NewLeadService(leads LeadStore, jobs Enqueuer, analytics EventTracker, notifyEmail string, logger *zerolog.Logger) *LeadService {
	return &LeadService{
		leads:       leads,
		jobs:        jobs,
		analytics:   analytics,
		notifyEmail: notifyEmail,
		logger:      logger,
	}
}

// JoinWaitlist registers an email once. Repeat signups succeed with
// AlreadyRegistered set and do not send another confirmation.
func (s *LeadService) JoinWaitlist(ctx context.Context, req *model.WaitlistRequest) (*model.WaitlistResponse, error) {
	email := utils.NormalizeEmail(req.Email)
	trimOptional(&req.Name, &req.Source, &req.Interest)

	signup, created, err := s.leads.CreateWaitlistSignup(ctx, email, req)
	if err != nil {
		return nil, err
	}

	if created {
		enqueue(ctx, s.logger, s.jobs, job.TaskWaitlistConfirmation, func() (*asynq.Task, error) {
			return job.NewWaitlistConfirmationTask(signup.Email, deref(signup.Name))
		})
	}

	s.track(ctx, "waitlist_joined", map[string]any{
		"source":             deref(req.Source),
		"already_registered": !created,
	})

	return &model.WaitlistResponse{Signup: signup, AlreadyRegistered: !created}, nil
}

// SubmitConsulting stores an inquiry, notifies the team and acknowledges the
// sender.
func (s *LeadService) SubmitConsulting(ctx context.Context, req *model.ConsultingRequest) (*model.ConsultingInquiry, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NormalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	trimOptional(&req.Company, &req.Role)

	inquiry, err := s.leads.CreateConsultingInquiry(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.notifyEmail != "" {
		enqueue(ctx, s.logger, s.jobs, job.TaskConsultingNotification, func() (*asynq.Task, error) {
			return job.NewConsultingNotificationTask(job.ConsultingNotificationPayload{
				To:      s.notifyEmail,
				Name:    inquiry.Name,
				Email:   inquiry.Email,
				Company: deref(inquiry.Company),
				Role:    deref(inquiry.Role),
				Message: inquiry.Message,
			})
		})
	} else {
		s.logger.Warn().Str("inquiry_id", inquiry.ID.String()).Msg("no consulting notification recipient configured")
	}

	enqueue(ctx, s.logger, s.jobs, job.TaskConsultingAck, func() (*asynq.Task, error) {
		return job.NewConsultingAckTask(inquiry.Email, inquiry.Name)
	})

	s.track(ctx, "consulting_submitted", map[string]any{
		"has_company": inquiry.Company != nil,
	})

	return inquiry, nil
}

func (s *LeadService) track(ctx context.Context, name string, props map[string]any) {
	if s.analytics == nil {
		return
	}
	s.analytics.Track(ctx, &model.AnalyticsEvent{Name: name, Properties: props})
}

// trimOptional trims optional text fields and clears the ones left empty.
func trimOptional(fields ...**string) {
	for _, f := range fields {
		if *f == nil {
			continue
		}
		v := strings.TrimSpace(**f)
		if v == "" {
			*f = nil
			continue
		}
		*f = &v
	}
}
