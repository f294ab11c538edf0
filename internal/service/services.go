package service

import (
	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/deppfellow/patternhub/internal/lib/session"
	"github.com/deppfellow/patternhub/internal/repository"
	"github.com/deppfellow/patternhub/internal/server"
)

type Services struct {
	Auth      *AuthService
	Job       *job.JobService
	Session   *session.Signer
	Users     *UserService
	Content   *ContentService
	Bookmarks *BookmarkService
	Tour      *TourService
	Leads     *LeadService
	APIKeys   *APIKeyService
	Analytics *AnalyticsService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	signer, err := session.NewSigner(s.Config.Auth.SessionSecret)
	if err != nil {
		return nil, err
	}

	authService := NewAuthService(s)

	var jobs Enqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	analytics := NewAnalyticsService(repos.Analytics, s.LoggerService, s.Logger)
	users := NewUserService(repos.Users, authService, jobs, analytics, s.Logger)

	return &Services{
		Auth:      authService,
		Job:       s.Job,
		Session:   signer,
		Users:     users,
		Content:   NewContentService(repos.Patterns, repos.Rules),
		Bookmarks: NewBookmarkService(users, repos.Bookmarks, repos.Patterns),
		Tour:      NewTourService(users, repos.Tour),
		Leads:     NewLeadService(repos.Leads, jobs, analytics, s.Config.Integration.ConsultingNotifyEmail, s.Logger),
		APIKeys:   NewAPIKeyService(users, repos.APIKeys, analytics, s.Logger),
		Analytics: analytics,
	}, nil
}
