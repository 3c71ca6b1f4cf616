package card

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrImageStatus means the image URL did not answer 2xx.
	ErrImageStatus = errors.New("image request failed")
	// ErrNotImage means the response was not an image.
	ErrNotImage = errors.New("response is not an image")
	// ErrCORSBlocked means an anonymous cross-origin load would be refused.
	ErrCORSBlocked = errors.New("image blocked by cross-origin policy")
)

// ImageProber approximates a browser's anonymous cross-origin image load.
type ImageProber struct {
	httpClient httpDoer
	origin     string
}

// NewImageProber builds a prober that presents origin on each request.
func NewImageProber(httpClient *http.Client, origin string, timeout time.Duration) *ImageProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	var doer httpDoer = httpClient
	if httpClient == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &ImageProber{httpClient: doer, origin: strings.TrimSuffix(origin, "/")}
}

// Probe returns nil when the image would load with crossorigin="anonymous".
func (p *ImageProber) Probe(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "image/*")
	if p.origin != "" {
		req.Header.Set("Origin", p.origin)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrImageStatus, resp.StatusCode)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: %q", ErrNotImage, resp.Header.Get("Content-Type"))
	}
	if p.origin != "" {
		allow := strings.TrimSpace(resp.Header.Get("Access-Control-Allow-Origin"))
		if allow != "*" && allow != p.origin {
			return fmt.Errorf("%w: allow-origin %q", ErrCORSBlocked, allow)
		}
	}
	return nil
}
