package repository

import (
	"github.com/deppfellow/patternhub/internal/server"
)

type Repositories struct {
	Users     *UserRepository
	Patterns  *PatternRepository
	Rules     *RuleRepository
	Bookmarks *BookmarkRepository
	Tour      *TourRepository
	Leads     *LeadRepository
	APIKeys   *APIKeyRepository
	Analytics *AnalyticsRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(s),
		Patterns:  NewPatternRepository(s),
		Rules:     NewRuleRepository(s),
		Bookmarks: NewBookmarkRepository(s),
		Tour:      NewTourRepository(s),
		Leads:     NewLeadRepository(s),
		APIKeys:   NewAPIKeyRepository(s),
		Analytics: NewAnalyticsRepository(s),
	}
}
