package airtable

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetRecord fetches a single record by ID
func GetRecord[T any](ctx context.Context, c *Client, base, table string, id RecordID) (*Record[T], error) {
	u, err := c.endpoint(base, table, string(id))
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var rec Record[T]
	if err := decode(body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord patches the given fields of one record and returns the record
// as Airtable stores it afterwards. Columns absent from fields are left as
// they are, so P is usually a narrower struct than T with omitempty tags.
//
// With typecast set Airtable coerces values that do not match a column's type
// (a string into a select option, for instance); without it a mismatch is
// rejected with a 422 APIError. There is no concurrency guard: concurrent
// patches to one record are last-write-wins.
func UpdateRecord[T, P any](ctx context.Context, c *Client, base, table string, id RecordID, fields P, typecast bool) (*Record[T], error) {
	u, err := c.endpoint(base, table, string(id))
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(updateRequest[P]{Typecast: typecast, Fields: fields})
	if err != nil {
		return nil, &SerializationError{Op: "encode", Err: err}
	}

	body, err := c.doRequest(ctx, http.MethodPatch, u, payload)
	if err != nil {
		return nil, err
	}

	var rec Record[T]
	if err := decode(body, &rec); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("table", table).
		Str("record", string(rec.ID)).
		Bool("typecast", typecast).
		Msg("Updated record")

	return &rec, nil
}
