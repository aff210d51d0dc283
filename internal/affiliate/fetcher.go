package affiliate

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/quangdng/spotline/internal/platform/constants"
)

// maxFetchBody caps how much of an affiliate page reverification reads.
const maxFetchBody = 1 << 20

// Fetcher retrieves affiliate target pages for reverification.
type Fetcher interface {
	Fetch(context context.Context, url string) (body string, err error)
}

// PacedFetcher wraps an http.Client behind a shared rate limiter so that
// reverification sweeps cannot hammer the affiliate provider. The limiter is
// shared with the ingest pipeline; both sides draw from one pacing budget.
type PacedFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewPacedFetcher(limiter *rate.Limiter) *PacedFetcher {
	return &PacedFetcher{
		client:  &http.Client{Timeout: constants.ReverifyFetchTimeout},
		limiter: limiter,
	}
}

func (fetcher *PacedFetcher) Fetch(context context.Context, url string) (string, error) {
	if err := fetcher.limiter.Wait(context); err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	response, err := fetcher.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("affiliate target returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxFetchBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
