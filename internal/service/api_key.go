package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	APIKeyPrefix        = "ph_"
	MaxActiveAPIKeys    = 10
	apiKeyRandomBytes   = 32
	apiKeyDisplayLength = 11
	apiKeyTouchTimeout  = 5 * time.Second
)

type APIKeyStore interface {
	// Create returns created=false without inserting when the user already
	// holds maxActive unrevoked keys.
	Create(ctx context.Context, userID uuid.UUID, name, prefix, keyHash string, maxActive int) (*model.APIKey, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.APIKey, error)
	Revoke(ctx context.Context, userID, keyID uuid.UUID) error
	GetByHash(ctx context.Context, keyHash string) (*model.APIKey, error)
	TouchLastUsed(ctx context.Context, keyID uuid.UUID) error
}

type APIKeyService struct {
	users     UserResolver
	keys      APIKeyStore
	analytics EventTracker
	logger    *zerolog.Logger
	wg        sync.WaitGroup
}

func NewAPIKeyService(users UserResolver, keys APIKeyStore, analytics EventTracker, logger *zerolog.Logger) *APIKeyService {
	return &APIKeyService{users: users, keys: keys, analytics: analytics, logger: logger}
}

// HashAPIKey returns the hex SHA-256 of a raw key. Only the hash is stored.
func HashAPIKey(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// generateAPIKey returns a new raw key and its display prefix.
func generateAPIKey() (string, string, error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate api key: %w", err)
	}
	raw := APIKeyPrefix + base64.RawURLEncoding.EncodeToString(buf)
	return raw, raw[:apiKeyDisplayLength], nil
}

// Create issues a key. The raw key is only ever returned here.
func (s *APIKeyService) Create(ctx context.Context, clerkID string, req *model.CreateAPIKeyRequest) (*model.CreatedAPIKey, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	raw, prefix, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	key, created, err := s.keys.Create(ctx, u.ID, strings.TrimSpace(req.Name), prefix, HashAPIKey(raw), MaxActiveAPIKeys)
	if err != nil {
		return nil, err
	}
	if !created {
		code := "API_KEY_LIMIT_REACHED"
		return nil, errs.NewConflictError(
			fmt.Sprintf("You can have at most %d active API keys. Revoke one to create another.", MaxActiveAPIKeys),
			true, &code,
		)
	}

	if s.analytics != nil {
		s.analytics.Track(ctx, &model.AnalyticsEvent{Name: "api_key_created", UserID: &u.ID})
	}

	return &model.CreatedAPIKey{APIKey: *key, Key: raw}, nil
}

func (s *APIKeyService) List(ctx context.Context, clerkID string) (*model.APIKeyList, error) {
	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	keys, err := s.keys.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []model.APIKey{}
	}
	return &model.APIKeyList{Items: keys}, nil
}

// Revoke soft-deletes one of the caller's keys.
func (s *APIKeyService) Revoke(ctx context.Context, clerkID, keyID string) error {
	id, err := uuid.Parse(keyID)
	if err != nil {
		return errs.NewNotFoundError("API key not found", true, nil)
	}

	u, err := s.users.EnsureUser(ctx, clerkID)
	if err != nil {
		return err
	}

	return s.keys.Revoke(ctx, u.ID, id)
}

// Authenticate resolves a raw key from a request header. Unknown and revoked
// keys are rejected with 401. last_used_at is updated in the background.
func (s *APIKeyService) Authenticate(ctx context.Context, raw string) (*model.APIKey, error) {
	invalid := errs.NewUnauthorizedError("Invalid API key", true)

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, APIKeyPrefix) || len(raw) <= len(APIKeyPrefix) {
		return nil, invalid
	}

	hash := HashAPIKey(raw)
	key, err := s.keys.GetByHash(ctx, hash)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(hash), []byte(key.KeyHash)) != 1 || !key.Active() {
		return nil, invalid
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), apiKeyTouchTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.keys.TouchLastUsed(bg, key.ID); err != nil {
			s.logger.Warn().Err(err).Str("api_key_id", key.ID.String()).Msg("failed to update api key last use")
		}
	}()

	return key, nil
}

// Wait blocks until background last-use updates finish.
func (s *APIKeyService) Wait() {
	s.wg.Wait()
}
