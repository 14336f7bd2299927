// Package registry maps configured provider names to constructed clients.
package registry

import (
	"fmt"
	"sort"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/provider/espn"
	"github.com/kayGweb/gridiron/internal/provider/pfr"
	"github.com/kayGweb/gridiron/internal/provider/sportsdata"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

// Registry holds one constructed client per configured provider.
type Registry struct {
	clients map[string]provider.Client
}

// New builds all known providers from configuration. Every provider key is
// registered on the shared limiter with its effective request delay.
func New(cfg *config.Config, limiter *ratelimit.Limiter) *Registry {
	r := &Registry{clients: make(map[string]provider.Client)}

	for name, providerCfg := range cfg.Providers {
		limiter.Register(name, cfg.RequestDelay(name))

		switch name {
		case "espn":
			r.register(espn.New(providerCfg, limiter, cfg.UserAgent, cfg.Timeout()))
		case "sportsdata":
			r.register(sportsdata.New(providerCfg, limiter, cfg.UserAgent, cfg.Timeout()))
		case "pfr":
			r.register(pfr.New(providerCfg, limiter, cfg.UserAgent, cfg.Timeout()))
		}
	}

	return r
}

func (r *Registry) register(client provider.Client) {
	r.clients[client.Name()] = client
}

// Get returns the client for a provider name.
func (r *Registry) Get(name string) (provider.Client, error) {
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return client, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases any provider-held resources (headless browsers).
func (r *Registry) Close() {
	for _, client := range r.clients {
		if closer, ok := client.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}
