// Package airtable provides a typed client for the Airtable REST API.
//
// It covers the calls a review queue needs: listing records with transparent
// pagination, fetching one record, and patching a record's fields.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := airtable.NewClient("pat...", logger, airtable.WithTimeout(10*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	q := airtable.NewListRecords("appXXXXXXXXXXXXXX", "Submissions").
//		WithView("Grid View").
//		WithSort("Name", airtable.Ascending).
//		WithMaxRecords(250)
//
//	records, err := airtable.List[Row](ctx, client, q)
//
// Airtable returns at most 100 records per response. List keeps requesting
// pages, forwarding the opaque offset token, until the server stops sending
// one or the WithMaxRecords budget is spent.
//
// # Error Handling
//
// Every error returned by the client has exactly one of these at its root:
//
//   - URLError: the base, table or record ID could not form a request URL
//   - TransportError: the request never got a response
//   - SerializationError: a payload could not be encoded or decoded
//   - APIError: Airtable answered with a non-2xx status; Body holds the raw response
//
// KindOf classifies any of them. The client never retries.
//
//	var apiErr *airtable.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnprocessable() {
//		// retry with typecast
//	}
package airtable
