package readers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"catalog-manager/feature/catalog/ingest"
)

// readURL fetches one descriptor over HTTP(S). The fetch happens
// eagerly: an unreachable target is a systemic failure of the location,
// not a per-item error.
func (r *Reader) readURL(ctx context.Context, target string) (<-chan ingest.ReadItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", target, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %q: status %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %q: %w", target, err)
	}

	items := make(chan ingest.ReadItem, 1)
	items <- ingest.ReadItem{Data: data}
	close(items)
	return items, nil
}
