package airtable

import (
	"context"
	"net/http"
)

// List fetches every record matching q, following offsets until Airtable
// stops returning one or the query's record cap is used up. Records keep
// the order the server returned them in.
//
// The result is all or nothing: if any page fails, the records gathered so
// far are dropped and the error is returned.
func List[T any](ctx context.Context, c *Client, q ListRecords) ([]Record[T], error) {
	target, err := c.endpoint(q.base, q.table)
	if err != nil {
		return nil, err
	}

	base := q.Values()
	remaining, bounded := q.MaxRecords()

	records := make([]Record[T], 0)
	offset := ""
	for page := 1; ; page++ {
		if bounded && remaining == 0 {
			break
		}

		// Below one page of budget this is the final request, capped explicitly.
		// Otherwise every page counts as a full one against the budget.
		pageCap, last := 0, false
		if bounded && remaining <= PageSize {
			pageCap, last = remaining, true
		}

		u := *target
		u.RawQuery = pageValues(base, pageCap, offset).Encode()

		body, err := c.doRequest(ctx, http.MethodGet, &u, nil)
		if err != nil {
			return nil, err
		}

		var resp listPage[T]
		if err := decode(body, &resp); err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)

		c.logger.Debug().
			Str("table", q.table).
			Int("page", page).
			Int("count", len(resp.Records)).
			Int("total", len(records)).
			Bool("more", resp.Offset != "").
			Msg("Retrieved records page")

		switch {
		case last:
			remaining = 0
		case bounded:
			remaining -= PageSize
		}

		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}

	return records, nil
}
