package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/model"
)

var (
	// ErrMalformedPayload means the payload does not resolve to an object type,
	// event kind and external id. The delivery is dropped.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrIncompleteTimeEntry means the time entry is still being edited and a
	// later delivery will carry its settled state.
	ErrIncompleteTimeEntry = errors.New("time entry is not complete yet")

	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// EventMapper parses one provider's raw webhook body. Implementations are pure.
type EventMapper interface {
	Map(ctx context.Context, body []byte, receivedAt time.Time) (*domain.ProviderEvent, error)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// MapperRegistry resolves the mapper for a provider. It is filled at startup
// and only read afterwards.
type MapperRegistry struct {
	mu      sync.RWMutex
	mappers map[model.Provider]EventMapper
}

func NewMapperRegistry() *MapperRegistry {
	return &MapperRegistry{mappers: make(map[model.Provider]EventMapper)}
}

// NewDefaultRegistry registers the mappers of every supported provider.
func NewDefaultRegistry() *MapperRegistry {
	r := NewMapperRegistry()
	r.Register(model.ProviderJira, NewJiraEventMapper())
	r.Register(model.ProviderTogglTrack, NewTogglTrackEventMapper())
	return r
}

func (r *MapperRegistry) Register(provider model.Provider, m EventMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[provider] = m
}

func (r *MapperRegistry) Get(provider model.Provider) (EventMapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
	return m, nil
}

func (r *MapperRegistry) MustGet(provider model.Provider) EventMapper {
	m, err := r.Get(provider)
	if err != nil {
		panic(err)
	}
	return m
}

// flexID accepts ids sent either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string {
	return string(f)
}
