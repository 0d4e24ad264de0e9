package printify

import (
	"context"
	"encoding/json"
)

// page is the envelope returned by paginated list endpoints.
type page struct {
	CurrentPage int             `json:"current_page,omitempty"`
	Data        json.RawMessage `json:"data"`
	NextPageURL *string         `json:"next_page_url,omitempty"`
}

// nextPageURL returns the url of the page after env, or "" when env is the
// last one. The API answers with a query suffix such as "?page=2", which is
// appended to the initial url verbatim.
func nextPageURL(initialURL string, env page) string {
	if env.NextPageURL == nil || *env.NextPageURL == "" {
		return ""
	}
	return initialURL + *env.NextPageURL
}

// listPages fetches up to maxPages pages starting at initialURL and returns the
// concatenated data arrays.
func listPages[T any](ctx context.Context, t *transport, initialURL string, maxPages int) ([]T, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	all := []T{}
	next := initialURL
	for i := 0; i < maxPages && next != ""; i++ {
		raw, err := t.get(ctx, next)
		if err != nil {
			return nil, err
		}
		env, err := decode[page](next, raw)
		if err != nil {
			return nil, err
		}
		items, err := decode[[]T](next, env.Data)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		next = nextPageURL(initialURL, env)
	}
	return all, nil
}
