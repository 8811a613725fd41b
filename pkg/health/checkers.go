package health

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// HTTPGetCheck probes a URL and treats any 2xx/3xx answer as available.
func HTTPGetCheck(client *http.Client, url string) CheckFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "build probe request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "probe")
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

		if resp.StatusCode >= 400 {
			return errors.Errorf("probe returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// LinkCheck adapts a boolean link-state probe, such as a chat connection's
// liveness flag.
func LinkCheck(alive func() bool) CheckFunc {
	return func(context.Context) error {
		if !alive() {
			return errors.New("link down")
		}
		return nil
	}
}
