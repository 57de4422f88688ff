package thumbnail

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Fetcher retrieves raw thumbnail bytes for a reference.
type Fetcher interface {
	Thumbnail(ctx context.Context, ref string) ([]byte, error)
}

// Cache stores resolved thumbnails. Misses report false with a nil error.
type Cache interface {
	GetThumbnail(ctx context.Context, ref string) (DisplayableImage, bool, error)
	PutThumbnail(ctx context.Context, ref string, img DisplayableImage) error
}

// AssemblerOpts configures an [Assembler]. Cache and Limiter are optional.
type AssemblerOpts struct {
	Fetcher Fetcher
	Cache   Cache
	Limiter *rate.Limiter
	Logger  *log.Logger
}

// Assembler resolves image references into displayable images.
//
// It is safe for concurrent use; the limiter is shared by every Resolve call.
type Assembler struct {
	fetcher Fetcher
	cache   Cache
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewAssembler creates an Assembler from opts.
func NewAssembler(opts AssemblerOpts) *Assembler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Assembler{
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		limiter: opts.Limiter,
		logger:  logger.With("component", "thumbnail"),
	}
}

// NewLimiter returns a limiter allowing perSecond fetches, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Resolve returns the displayable image for ref.
//
// An empty ref returns the empty image without touching the cache or network.
// Fetch failures are logged and also yield the empty image.
func (a *Assembler) Resolve(ctx context.Context, ref string) DisplayableImage {
	if ref == "" {
		return DisplayableImage{}
	}

	if a.cache != nil {
		img, ok, err := a.cache.GetThumbnail(ctx, ref)
		if err != nil {
			a.logger.Debug("thumbnail cache read failed", "ref", ref, "error", err)
		} else if ok && !img.Empty() {
			return img
		}
	}

	if a.fetcher == nil {
		a.logger.Warn("no thumbnail fetcher configured", "ref", ref)
		return DisplayableImage{}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			a.logger.Warn("thumbnail fetch not attempted", "ref", ref, "error", err)
			return DisplayableImage{}
		}
	}

	data, err := a.fetcher.Thumbnail(ctx, ref)
	if err != nil {
		a.logger.Warn("failed to fetch thumbnail", "ref", ref, "error", err)
		return DisplayableImage{}
	}
	if len(data) == 0 {
		a.logger.Warn("thumbnail payload is empty", "ref", ref)
		return DisplayableImage{}
	}

	img := NewDisplayableImage(data)
	if a.cache != nil {
		if err := a.cache.PutThumbnail(ctx, ref, img); err != nil {
			a.logger.Debug("thumbnail cache write failed", "ref", ref, "error", err)
		}
	}
	return img
}
