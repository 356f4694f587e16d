package spotify

import (
	"context"
	"encoding/json"
)

// Page is one page of a cursor-paginated collection endpoint. Next
// carries a fully-qualified next-page URL; absence ends the sequence.
type Page struct {
	Items []json.RawMessage `json:"items"`
	Next  *string           `json:"next"`
	Total int               `json:"total"`
}

// FetchAllPages follows next cursors starting at startURL and returns
// every page's items in server order as one sequence.
//
// A request failure after at least one successful page truncates the
// sequence instead of discarding it: the items collected so far are
// returned alongside the error, and the caller decides whether partial
// results are acceptable. Each invocation restarts from startURL.
func (c *Client) FetchAllPages(ctx context.Context, startURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage

	url := startURL
	for url != "" {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		var page Page
		if err := c.GetJSON(ctx, url, &page); err != nil {
			if len(items) > 0 {
				c.logger.Warn("pagination truncated",
					"url", url, "collected", len(items), "error", err)
			}
			return items, err
		}

		items = append(items, page.Items...)

		if page.Next == nil || *page.Next == "" {
			break
		}
		url = *page.Next
	}

	return items, nil
}
