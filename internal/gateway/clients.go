package gateway

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// ClientSet bundles the process-wide external connections: the remote
// configuration service, the active LLM provider backend, and the
// storefront flag surface. All three share one lazy initialization.
type ClientSet struct {
	Config   ports.AIConfigService
	Provider ports.ProviderClient
	Flags    ports.FlagSource
}

// ClientFactory establishes the external connections. It is called at most
// once per successful initialization.
type ClientFactory func(ctx context.Context) (*ClientSet, error)

// ClientHolder lazily initializes the shared client set with exactly-once
// semantics: concurrent first requests await one in-flight initialization
// instead of racing to create duplicate connections.
//
// A failed initialization is surfaced to every waiter but never cached, so
// a later request retries from scratch. Transient setup failures (config
// service briefly unreachable at boot) therefore do not permanently
// degrade the process.
type ClientHolder struct {
	factory ClientFactory
	group   singleflight.Group

	mu  sync.RWMutex
	set *ClientSet
}

// NewClientHolder creates a holder around the given factory.
func NewClientHolder(factory ClientFactory) *ClientHolder {
	return &ClientHolder{factory: factory}
}

// Get returns the shared client set, initializing it on first use.
func (h *ClientHolder) Get(ctx context.Context) (*ClientSet, error) {
	h.mu.RLock()
	set := h.set
	h.mu.RUnlock()
	if set != nil {
		return set, nil
	}

	value, err, _ := h.group.Do("clients", func() (any, error) {
		// A waiter that lost an earlier race may arrive here after the
		// winner already stored the set.
		h.mu.RLock()
		cached := h.set
		h.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		set, err := h.factory(ctx)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		h.set = set
		h.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*ClientSet), nil
}
