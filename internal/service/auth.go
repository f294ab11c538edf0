package service

import (
	"context"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
)

// IdentityProvider looks up account profiles by identity-provider id.
type IdentityProvider interface {
	GetUser(ctx context.Context, clerkID string) (*model.UpsertUserPayload, error)
}

// AuthService configures the Clerk SDK and reads user profiles from it.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

func (a *AuthService) GetUser(ctx context.Context, clerkID string) (*model.UpsertUserPayload, error) {
	u, err := user.Get(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clerk user %s: %w", clerkID, err)
	}
	return profileFromClerk(u), nil
}

// profileFromClerk picks the primary email address, falling back to the
// first one listed.
func profileFromClerk(u *clerk.User) *model.UpsertUserPayload {
	payload := &model.UpsertUserPayload{
		ClerkID:   u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
	}

	for _, addr := range u.EmailAddresses {
		if addr == nil {
			continue
		}
		if u.PrimaryEmailAddressID != nil && addr.ID == *u.PrimaryEmailAddressID {
			payload.Email = strPtr(addr.EmailAddress)
			break
		}
		if payload.Email == nil {
			payload.Email = strPtr(addr.EmailAddress)
		}
	}

	return payload
}
