package airtable

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countPatch sends Count as text so that only typecast can store it
type countPatch struct {
	Count string `json:"Count"`
}

// typecastServer stores a numeric Count column and rejects text unless typecast is set
func typecastServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appABC/Review%20Table/recABC", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var body map[string]json.RawMessage
		if !assert.NoError(t, json.Unmarshal(raw, &body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.NotContains(t, body, "createdTime")
		assert.NotContains(t, body, "id")

		var typecast bool
		assert.NoError(t, json.Unmarshal(body["typecast"], &typecast))
		var fields countPatch
		assert.NoError(t, json.Unmarshal(body["fields"], &fields))

		count, err := strconv.Atoi(fields.Count)
		if !typecast || err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Field \"Count\" cannot accept the provided value"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "recABC",
			"createdTime": "2024-06-01T08:30:00.000Z",
			"fields":      map[string]any{"Name": "existing", "Count": count},
		})
	}))
}

func TestUpdateRecordTypecast(t *testing.T) {
	server := typecastServer(t)
	defer server.Close()
	client := newTestClient(t, server)
	ctx := context.Background()

	t.Run("without typecast the mismatch is rejected", func(t *testing.T) {
		rec, err := UpdateRecord[testRow](ctx, client, "appABC", "Review Table", "recABC", countPatch{Count: "7"}, false)
		assert.Nil(t, rec)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.True(t, apiErr.IsUnprocessable())
		assert.Contains(t, apiErr.Body, "INVALID_VALUE_FOR_COLUMN")
	})

	t.Run("with typecast the value is coerced", func(t *testing.T) {
		rec, err := UpdateRecord[testRow](ctx, client, "appABC", "Review Table", "recABC", countPatch{Count: "7"}, true)
		require.NoError(t, err)
		assert.Equal(t, RecordID("recABC"), rec.ID)
		assert.Equal(t, 7, rec.Fields.Count)
		assert.Equal(t, "existing", rec.Fields.Name)
		assert.False(t, rec.CreatedTime.IsZero())
	})
}

func TestUpdateRecordEncodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	fields := map[string]any{"Count": make(chan int)}
	_, err := UpdateRecord[testRow](context.Background(), newTestClient(t, server), "appABC", "tbl", "recABC", fields, true)

	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.Equal(t, "encode", serErr.Op)
}

func TestUpdateRecordMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	_, err := UpdateRecord[testRow](context.Background(), newTestClient(t, server), "appABC", "tbl", "", countPatch{}, true)
	assert.Equal(t, KindURL, KindOf(err))
}

func TestGetRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/appABC/tbl/recOK":
			_, _ = w.Write([]byte(`{"id":"recOK","createdTime":"2024-06-01T08:30:00.000Z","fields":{"Name":"found","Count":3}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"NOT_FOUND"}`))
		}
	}))
	defer server.Close()
	client := newTestClient(t, server)

	rec, err := GetRecord[testRow](context.Background(), client, "appABC", "tbl", "recOK")
	require.NoError(t, err)
	assert.Equal(t, testRow{Name: "found", Count: 3}, rec.Fields)

	_, err = GetRecord[testRow](context.Background(), client, "appABC", "tbl", "recMissing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, `{"error":"NOT_FOUND"}`, apiErr.Body)
}

func TestRecordJSON(t *testing.T) {
	payload := `{
		"id": "recXYZ",
		"createdTime": "2024-02-03T04:05:06.000Z",
		"fields": {
			"Name": "with attachment",
			"Count": 1
		}
	}`

	var rec Record[testRow]
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	assert.Equal(t, "recXYZ", rec.ID.String())
	assert.Equal(t, 3, rec.CreatedTime.Day())
	assert.Equal(t, "with attachment", rec.Fields.Name)
}

func TestAttachment(t *testing.T) {
	payload := `{
		"id": "attA",
		"url": "https://dl.airtable.com/foo.png",
		"filename": "foo.png",
		"size": 2048,
		"type": "image/png",
		"width": 640,
		"height": 480,
		"thumbnails": {
			"small": {"url": "https://dl.airtable.com/s.png", "width": 36, "height": 36},
			"large": {"url": "https://dl.airtable.com/l.png", "width": 512, "height": 384},
			"full": {"url": "https://dl.airtable.com/f.png", "width": 640, "height": 480}
		}
	}`

	var a Attachment
	require.NoError(t, json.Unmarshal([]byte(payload), &a))
	assert.True(t, a.IsImage())
	require.NotNil(t, a.Thumbnails)
	assert.Equal(t, 512, a.Thumbnails.Large.Width)

	pdf := Attachment{Type: "application/pdf"}
	assert.False(t, pdf.IsImage())
}
