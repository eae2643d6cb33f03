package fetchutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"profharvest/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; profharvest/1.0)"

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Retries is the number of additional attempts after the first one.
	Retries int
	// Backoff is the base delay between attempts, the actual delay
	// grows linearly with the attempt number.
	Backoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout == 0 {
		o.Timeout = time.Second * 15
	}
	if o.Backoff == 0 {
		o.Backoff = time.Second
	}
	return o
}

// NewClient builds a resty client suitable for scraping public pages.
func NewClient(opts Options) *resty.Client {
	opts = opts.withDefaults()

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "profharvest/fetchutil")

	return client
}

type Fetcher struct {
	Client  *resty.Client
	Retries int
	Backoff time.Duration
}

func NewFetcher(opts Options) Fetcher {
	opts = opts.withDefaults()
	return Fetcher{
		Client:  NewClient(opts),
		Retries: opts.Retries,
		Backoff: opts.Backoff,
	}
}

// Get fetches the raw body of a url, retrying transient failures with a
// linearly increasing backoff. The final failure is returned after the
// retry budget is exhausted.
func (f Fetcher) Get(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.Retries; attempt++ {
		res, err := f.Client.R().SetContext(ctx).Get(url)
		if err == nil && !res.IsError() {
			return res.String(), nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status %d", res.StatusCode())
		}

		if attempt == f.Retries {
			break
		}

		delay := f.Backoff * time.Duration(attempt+1)
		slog.WarnContext(
			ctx, "fetch failed, retrying",
			"url", url,
			"attempt", attempt+1,
			"delay", delay,
			"err", lastErr,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("fetch %s after %d attempts: %w", url, f.Retries+1, lastErr)
}
