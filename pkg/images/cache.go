package images

import (
	"context"
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"domshot/pkg/resource"
	stdnet "domshot/std/net"
)

// DefaultSize is the number of decoded images kept by a Cache.
const DefaultSize = 256

// Matcher resolves an asset key to a decoded image.
type Matcher interface {
	Match(ctx context.Context, key string) (image.Image, error)
}

// Cache decodes assets on first use and keeps the most recent ones.
// Concurrent misses for the same key share a single load. It is safe
// for concurrent use.
type Cache struct {
	fetcher resource.Fetcher
	logger  *zap.Logger
	size    int

	images *lru.Cache
	group  singleflight.Group
}

type Option func(*Cache)

// WithFetcher sets how URL and path keys are loaded. The default reads
// local files and fetches http(s) URLs.
func WithFetcher(f resource.Fetcher) Option {
	return func(c *Cache) { c.fetcher = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithSize bounds the number of decoded images held.
func WithSize(n int) Option {
	return func(c *Cache) { c.size = n }
}

func NewCache(opts ...Option) (*Cache, error) {
	c := &Cache{
		fetcher: resource.MultiFetcher{resource.FileFetcher{}, resource.NewFetcher("")},
		logger:  zap.NewNop(),
		size:    DefaultSize,
	}
	for _, o := range opts {
		o(c)
	}
	images, err := lru.New(c.size)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}
	c.images = images
	return c, nil
}

// Match returns the image for key: a data URI, inline SVG markup, an
// http(s) URL or a path understood by the fetcher.
func (c *Cache) Match(ctx context.Context, key string) (image.Image, error) {
	if v, ok := c.images.Get(key); ok {
		return v.(image.Image), nil
	}
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		img, err := c.load(ctx, key)
		if err != nil {
			return nil, err
		}
		c.images.Add(key, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Shared image load", zap.String("key", describe(key)))
	}
	return v.(image.Image), nil
}

// Len is the number of cached images.
func (c *Cache) Len() int { return c.images.Len() }

func (c *Cache) load(ctx context.Context, key string) (image.Image, error) {
	switch {
	case IsDataURI(key):
		return LoadImageFromDataURI(key)
	case IsSVGMarkup(key):
		return RasterizeSVG([]byte(key), 0, 0)
	}
	body, ct, err := c.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", describe(key), err)
	}
	img, err := Decode(body, ct)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", describe(key), err)
	}
	c.logger.Debug("Loaded image",
		zap.String("key", describe(key)),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Bool("remote", stdnet.IsNetworkURL(key)))
	return img, nil
}

// describe shortens inline keys for logs and errors.
func describe(key string) string {
	if len(key) > 64 && (IsDataURI(key) || IsSVGMarkup(key)) {
		return key[:61] + "..."
	}
	return key
}
