package render

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/songsort/pkg/cache"
)

// CachedSVG is [RenderSVG] backed by c. Renders are keyed by the DOT source;
// cache failures are logged and fall through to rendering.
func CachedSVG(ctx context.Context, c cache.Cache, dot string) ([]byte, error) {
	key := cache.Key("svg", []byte(dot))
	if data, ok, err := c.Get(ctx, key); err != nil {
		log.Warn("render cache read", "err", err)
	} else if ok {
		log.Debug("render cache hit", "key", key[:12])
		return data, nil
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, svg, 0); err != nil {
		log.Warn("render cache write", "err", err)
	}
	return svg, nil
}
