// Package servicetest provides in-memory implementations of the service
// store interfaces for tests.
//
// The stores mirror the SQL semantics the repositories guarantee: unique
// keys, ON CONFLICT DO NOTHING inserts, non-downgrading progress and
// sqlerr.NotFound for missing rows.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var (
	clockMu sync.Mutex
	clock   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

// tick returns strictly increasing timestamps so "newest first" orderings
// are deterministic.
func tick() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Second)
	return clock
}

// Users implements service.UserStore.
type Users struct {
	mu      sync.Mutex
	byClerk map[string]*model.User
	Err     error
}

func NewUsers() *Users {
	return &Users{byClerk: map[string]*model.User{}}
}

func (u *Users) GetByClerkID(_ context.Context, clerkID string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	user, ok := u.byClerk[clerkID]
	if !ok {
		return nil, sqlerr.NotFound("users", "clerk_id "+clerkID)
	}
	cp := *user
	return &cp, nil
}

func (u *Users) Upsert(_ context.Context, p model.UpsertUserPayload) (*model.User, bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, false, u.Err
	}

	existing, ok := u.byClerk[p.ClerkID]
	if !ok {
		now := tick()
		user := &model.User{
			ID:        uuid.New(),
			ClerkID:   p.ClerkID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			ImageURL:  p.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		u.byClerk[p.ClerkID] = user
		cp := *user
		return &cp, true, nil
	}

	if p.Email != nil {
		existing.Email = p.Email
	}
	if p.FirstName != nil {
		existing.FirstName = p.FirstName
	}
	existing.UpdatedAt = tick()
	cp := *existing
	return &cp, false, nil
}

// Identity implements service.IdentityProvider.
type Identity struct {
	Profiles map[string]*model.UpsertUserPayload
	Err      error
}

func (i *Identity) GetUser(_ context.Context, clerkID string) (*model.UpsertUserPayload, error) {
	if i.Err != nil {
		return nil, i.Err
	}
	p, ok := i.Profiles[clerkID]
	if !ok {
		return nil, fmt.Errorf("clerk user %s not found", clerkID)
	}
	cp := *p
	return &cp, nil
}

// Enqueuer records enqueued tasks.
type Enqueuer struct {
	mu    sync.Mutex
	Tasks []*asynq.Task
	Err   error
}

func (e *Enqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	e.Tasks = append(e.Tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Queue: "default", Type: task.Type()}, nil
}

// Types returns the enqueued task types in order.
func (e *Enqueuer) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		out = append(out, t.Type())
	}
	return out
}

// Tracker records analytics events synchronously.
type Tracker struct {
	mu     sync.Mutex
	Events []model.AnalyticsEvent
}

func (t *Tracker) Track(_ context.Context, event *model.AnalyticsEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Events = append(t.Events, *event)
}

func (t *Tracker) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.Events))
	for _, e := range t.Events {
		out = append(out, e.Name)
	}
	return out
}

// Content implements service.PatternStore and service.RuleStore over
// seeded data.
type Content struct {
	Patterns []model.Pattern
	Rules    []model.Rule
}

func matches(f model.ContentFilter, title, description string, tags []string) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(title), q) && !strings.Contains(strings.ToLower(description), q) {
			return false
		}
	}
	if f.Tag != "" {
		found := false
		for _, t := range tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func window[T any](items []T, f model.ContentFilter) []T {
	if f.Offset >= len(items) {
		return []T{}
	}
	end := f.Offset + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[f.Offset:end]
}

// PatternStore returns a service.PatternStore view of c.
func (c *Content) PatternStore() *PatternStore { return &PatternStore{c} }

// RuleStore returns a service.RuleStore view of c.
func (c *Content) RuleStore() *RuleStore { return &RuleStore{c} }

type PatternStore struct{ c *Content }

func (p *PatternStore) List(_ context.Context, f model.ContentFilter) ([]model.Pattern, int, error) {
	var out []model.Pattern
	for _, it := range p.c.Patterns {
		if matches(f, it.Title, it.Description, it.Tags) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return window(out, f), len(out), nil
}

func (p *PatternStore) GetBySlug(_ context.Context, slug string) (*model.Pattern, error) {
	for _, it := range p.c.Patterns {
		if it.Slug == slug {
			cp := it
			return &cp, nil
		}
	}
	return nil, sqlerr.NotFound("patterns", "slug "+slug)
}

func (p *PatternStore) IDsBySlugs(_ context.Context, slugs []string) (map[string]uuid.UUID, error) {
	out := map[string]uuid.UUID{}
	for _, s := range slugs {
		for _, it := range p.c.Patterns {
			if it.Slug == s {
				out[s] = it.ID
			}
		}
	}
	return out, nil
}

type RuleStore struct{ c *Content }

func (r *RuleStore) List(_ context.Context, f model.ContentFilter) ([]model.Rule, int, error) {
	var out []model.Rule
	for _, it := range r.c.Rules {
		if !matches(f, it.Title, it.Description, it.Tags) {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Severity != "" && it.Severity != f.Severity {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return window(out, f), len(out), nil
}

func (r *RuleStore) GetBySlug(_ context.Context, slug string) (*model.Rule, error) {
	for _, it := range r.c.Rules {
		if it.Slug == slug {
			cp := it
			return &cp, nil
		}
	}
	return nil, sqlerr.NotFound("rules", "slug "+slug)
}

// Bookmarks implements service.BookmarkStore. It joins against Content for
// pattern summaries.
type Bookmarks struct {
	mu      sync.Mutex
	content *Content
	rows    map[uuid.UUID][]model.Bookmark
}

func NewBookmarks(content *Content) *Bookmarks {
	return &Bookmarks{content: content, rows: map[uuid.UUID][]model.Bookmark{}}
}

func (b *Bookmarks) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := append([]model.Bookmark(nil), b.rows[userID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (b *Bookmarks) AddMany(_ context.Context, userID uuid.UUID, patternIDs []uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

next:
	for _, pid := range patternIDs {
		for _, existing := range b.rows[userID] {
			if existing.PatternID == pid {
				continue next
			}
		}
		for _, p := range b.content.Patterns {
			if p.ID == pid {
				b.rows[userID] = append(b.rows[userID], model.Bookmark{
					ID:           uuid.New(),
					PatternID:    p.ID,
					PatternSlug:  p.Slug,
					PatternTitle: p.Title,
					Description:  p.Description,
					Tags:         p.Tags,
					Difficulty:   p.Difficulty,
					CreatedAt:    tick(),
				})
			}
		}
	}
	return nil
}

func (b *Bookmarks) RemoveBySlug(_ context.Context, userID uuid.UUID, slug string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.rows[userID][:0]
	for _, row := range b.rows[userID] {
		if row.PatternSlug != slug {
			kept = append(kept, row)
		}
	}
	b.rows[userID] = kept
	return nil
}

// Tour implements service.TourStore.
type Tour struct {
	mu       sync.Mutex
	Lessons  []model.TourLesson
	Steps    []model.TourStep
	progress map[uuid.UUID]map[uuid.UUID]*model.StepProgress
}

func NewTour(lessons []model.TourLesson, steps []model.TourStep) *Tour {
	for i := range lessons {
		lessons[i].StepCount = 0
		for _, s := range steps {
			if s.LessonID == lessons[i].ID {
				lessons[i].StepCount++
			}
		}
	}
	return &Tour{Lessons: lessons, Steps: steps, progress: map[uuid.UUID]map[uuid.UUID]*model.StepProgress{}}
}

func (t *Tour) ListLessons(context.Context) ([]model.TourLesson, error) {
	out := append([]model.TourLesson(nil), t.Lessons...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (t *Tour) GetLessonBySlug(_ context.Context, slug string) (*model.TourLesson, error) {
	for _, l := range t.Lessons {
		if l.Slug == slug {
			cp := l
			return &cp, nil
		}
	}
	return nil, sqlerr.NotFound("tour_lessons", "slug "+slug)
}

func (t *Tour) ListSteps(_ context.Context, lessonID uuid.UUID) ([]model.TourStep, error) {
	var out []model.TourStep
	for _, s := range t.Steps {
		if s.LessonID == lessonID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (t *Tour) lessonSlug(stepID uuid.UUID) (string, bool) {
	for _, s := range t.Steps {
		if s.ID == stepID {
			for _, l := range t.Lessons {
				if l.ID == s.LessonID {
					return l.Slug, true
				}
			}
		}
	}
	return "", false
}

func (t *Tour) ListProgress(_ context.Context, userID uuid.UUID) ([]model.StepProgress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []model.StepProgress
	for _, s := range t.Steps {
		if p, ok := t.progress[userID][s.ID]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// progressRank mirrors the CASE ordering the progress upsert uses so a
// completed step is never moved back to in_progress.
func progressRank(s model.ProgressStatus) int {
	switch s {
	case model.ProgressCompleted:
		return 2
	case model.ProgressInProgress:
		return 1
	default:
		return 0
	}
}

func (t *Tour) set(userID, stepID uuid.UUID, status model.ProgressStatus) *model.StepProgress {
	slug, ok := t.lessonSlug(stepID)
	if !ok {
		return nil
	}
	if t.progress[userID] == nil {
		t.progress[userID] = map[uuid.UUID]*model.StepProgress{}
	}

	now := tick()
	p, exists := t.progress[userID][stepID]
	if !exists {
		p = &model.StepProgress{StepID: stepID, LessonSlug: slug, Status: status}
		t.progress[userID][stepID] = p
	} else if progressRank(status) > progressRank(p.Status) {
		p.Status = status
	}
	if p.Status == model.ProgressCompleted && p.CompletedAt == nil {
		p.CompletedAt = &now
	}
	p.UpdatedAt = now
	return p
}

func (t *Tour) UpsertProgress(_ context.Context, userID, stepID uuid.UUID, status model.ProgressStatus) (*model.StepProgress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.set(userID, stepID, status)
	if p == nil {
		return nil, sqlerr.NotFound("tour_steps", "id "+stepID.String())
	}
	cp := *p
	return &cp, nil
}

func (t *Tour) CompleteSteps(_ context.Context, userID uuid.UUID, stepIDs []uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range stepIDs {
		t.set(userID, id, model.ProgressCompleted)
	}
	return nil
}

func (t *Tour) ExistingStepIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := t.lessonSlug(id); ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

// Leads implements service.LeadStore.
type Leads struct {
	mu        sync.Mutex
	Signups   map[string]*model.WaitlistSignup
	Inquiries []model.ConsultingInquiry
}

func NewLeads() *Leads {
	return &Leads{Signups: map[string]*model.WaitlistSignup{}}
}

func (l *Leads) CreateWaitlistSignup(_ context.Context, email string, req *model.WaitlistRequest) (*model.WaitlistSignup, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.Signups[email]; ok {
		cp := *existing
		return &cp, false, nil
	}
	s := &model.WaitlistSignup{
		ID:        uuid.New(),
		Email:     email,
		Name:      req.Name,
		Source:    req.Source,
		Interest:  req.Interest,
		CreatedAt: tick(),
	}
	l.Signups[email] = s
	cp := *s
	return &cp, true, nil
}

func (l *Leads) CreateConsultingInquiry(_ context.Context, req *model.ConsultingRequest) (*model.ConsultingInquiry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inq := model.ConsultingInquiry{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Role:      req.Role,
		Message:   req.Message,
		CreatedAt: tick(),
	}
	l.Inquiries = append(l.Inquiries, inq)
	return &inq, nil
}

// APIKeys implements service.APIKeyStore.
type APIKeys struct {
	mu      sync.Mutex
	keys    []*model.APIKey
	touched map[uuid.UUID]int
}

func NewAPIKeys() *APIKeys {
	return &APIKeys{touched: map[uuid.UUID]int{}}
}

func (a *APIKeys) Create(_ context.Context, userID uuid.UUID, name, prefix, keyHash string, maxActive int) (*model.APIKey, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := 0
	for _, k := range a.keys {
		if k.UserID == userID && k.Active() {
			active++
		}
	}
	if active >= maxActive {
		return nil, false, nil
	}
	k := &model.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Prefix:    prefix,
		KeyHash:   keyHash,
		CreatedAt: tick(),
	}
	a.keys = append(a.keys, k)
	cp := *k
	return &cp, true, nil
}

func (a *APIKeys) ListByUser(_ context.Context, userID uuid.UUID) ([]model.APIKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []model.APIKey
	for i := len(a.keys) - 1; i >= 0; i-- {
		if a.keys[i].UserID == userID {
			out = append(out, *a.keys[i])
		}
	}
	return out, nil
}

func (a *APIKeys) Revoke(_ context.Context, userID, keyID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.keys {
		if k.ID == keyID && k.UserID == userID {
			if k.RevokedAt == nil {
				now := tick()
				k.RevokedAt = &now
			}
			return nil
		}
	}
	return sqlerr.NotFound("api_keys", "id "+keyID.String())
}

func (a *APIKeys) GetByHash(_ context.Context, keyHash string) (*model.APIKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.keys {
		if k.KeyHash == keyHash {
			cp := *k
			return &cp, nil
		}
	}
	return nil, sqlerr.NotFound("api_keys", "hash")
}

func (a *APIKeys) TouchLastUsed(_ context.Context, keyID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.keys {
		if k.ID == keyID {
			now := tick()
			k.LastUsedAt = &now
			a.touched[keyID]++
		}
	}
	return nil
}

// Touches reports how often a key's last use was recorded.
func (a *APIKeys) Touches(keyID uuid.UUID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.touched[keyID]
}

// Analytics implements service.AnalyticsStore.
type Analytics struct {
	mu     sync.Mutex
	Stored []model.AnalyticsEvent
	Err    error
}

func (a *Analytics) Insert(_ context.Context, event *model.AnalyticsEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Stored = append(a.Stored, *event)
	return nil
}

func (a *Analytics) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Stored)
}

// Recorder captures New Relic custom events.
type Recorder struct {
	mu     sync.Mutex
	Events []map[string]interface{}
	Types  []string
}

func (r *Recorder) RecordCustomEvent(eventType string, params map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Types = append(r.Types, eventType)
	r.Events = append(r.Events, params)
}
