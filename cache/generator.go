package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/observability"
	"github.com/wudi/inspectkit/report"
)

// Renderer is the part of report.Generator the cache wraps. Fingerprint is
// folded into every key, so renderers configured differently never share
// entries.
type Renderer interface {
	Generate(ctx context.Context, record inspection.Record, property *inspection.Property, tenant *inspection.Tenant) ([]byte, error)
	Fingerprint() string
}

var _ Renderer = (*report.Generator)(nil)

// Generator serves reports from a Cache and renders misses once, even when
// several callers ask for the same envelope at the same time. Cache errors
// are logged and otherwise ignored.
type Generator struct {
	render  Renderer
	cache   Cache
	ttl     time.Duration
	version string
	log     observability.Logger
	group   singleflight.Group
}

func NewGenerator(render Renderer, c Cache, ttl time.Duration, log observability.Logger) *Generator {
	return &Generator{
		render:  render,
		cache:   c,
		ttl:     ttl,
		version: render.Fingerprint(),
		log:     observability.OrNop(log).With(observability.String("component", "Cache")),
	}
}

func (g *Generator) Generate(ctx context.Context, env inspection.Envelope) ([]byte, error) {
	key, err := Key(g.version, env)
	if err != nil {
		return nil, err
	}
	if pdf, ok, err := g.cache.Get(ctx, key); err != nil {
		g.log.Warn("cache get failed", observability.String("key", key), observability.Error("err", err))
	} else if ok {
		g.log.Debug("cache hit", observability.String("key", key))
		return pdf, nil
	}

	v, err, shared := g.group.Do(key, func() (interface{}, error) {
		if pdf, ok, _ := g.cache.Get(ctx, key); ok {
			return pdf, nil
		}
		pdf, err := g.render.Generate(ctx, env.Record, env.Property, env.Tenant)
		if err != nil {
			return nil, err
		}
		if err := g.cache.Set(ctx, key, pdf, g.ttl); err != nil {
			g.log.Warn("cache set failed", observability.String("key", key), observability.Error("err", err))
		}
		return pdf, nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Debug("cache miss", observability.String("key", key), observability.Bool("shared", shared))
	return v.([]byte), nil
}
