package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

const (
	// AnalyticsEventType is the New Relic custom event type for tracked events.
	AnalyticsEventType = "AnalyticsEvent"

	analyticsWriteTimeout = 5 * time.Second

	// New Relic drops attribute values longer than this.
	maxAttributeLength = 255
)

type AnalyticsStore interface {
	Insert(ctx context.Context, event *model.AnalyticsEvent) error
}

// CustomEventRecorder is satisfied by logger.LoggerService.
type CustomEventRecorder interface {
	RecordCustomEvent(eventType string, params map[string]interface{})
}

type AnalyticsService struct {
	store    AnalyticsStore
	recorder CustomEventRecorder
	logger   *zerolog.Logger
	wg       sync.WaitGroup
}

func NewAnalyticsService(store AnalyticsStore, recorder CustomEventRecorder, logger *zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, recorder: recorder, logger: logger}
}

// Track persists event and forwards it to New Relic in the background. The
// write outlives the request but is bounded by its own timeout.
func (s *AnalyticsService) Track(ctx context.Context, event *model.AnalyticsEvent) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsWriteTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := s.store.Insert(bg, event); err != nil {
			s.logger.Error().Err(err).Str("event", event.Name).Msg("failed to store analytics event")
		}

		if s.recorder != nil {
			s.recorder.RecordCustomEvent(AnalyticsEventType, eventAttributes(event))
		}
	}()
}

// Wait blocks until in-flight events are written.
func (s *AnalyticsService) Wait() {
	s.wg.Wait()
}

func eventAttributes(event *model.AnalyticsEvent) map[string]interface{} {
	attrs := coerceAttributes(event.Properties)
	attrs["name"] = event.Name
	if event.UserID != nil {
		attrs["user_id"] = event.UserID.String()
	}
	if event.AnonymousID != nil {
		attrs["anonymous_id"] = *event.AnonymousID
	}
	if event.Path != nil {
		attrs["path"] = *event.Path
	}
	return attrs
}

// coerceAttributes flattens arbitrary JSON properties into the scalar
// string, number and bool values New Relic accepts. Nested values are
// re-encoded as JSON strings.
func coerceAttributes(props map[string]any) map[string]interface{} {
	out := make(map[string]interface{}, len(props)+4)

	for k, v := range props {
		switch val := v.(type) {
		case nil:
			continue
		case bool:
			out[k] = val
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
			out[k] = cast.ToFloat64(val)
		case string:
			out[k] = truncate(val)
		default:
			if str, err := cast.ToStringE(val); err == nil {
				out[k] = truncate(str)
				continue
			}
			encoded, err := json.Marshal(val)
			if err != nil {
				continue
			}
			out[k] = truncate(string(encoded))
		}
	}

	return out
}

// truncate cuts s to at most maxAttributeLength bytes without splitting a
// UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= maxAttributeLength {
		return s
	}
	cut := maxAttributeLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
