package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/nextrecord", "/nextrecord"},
		{"/records", "/records"},
		{"/metrics", "/metrics"},
		{"/record/12", "/record/{index}"},
		{"/records/recABC", "/records/{id}"},
		{"/records/recABC/status", "/records/{id}/status"},
		{"/wp-admin/setup.php", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/records/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/records/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"rec1", "rec2", "rec3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestMiddlewareDefaultsToOK(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/health/live", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestInstrumentTransport(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	client := &http.Client{Transport: InstrumentTransport(nil)}

	okCounter := upstreamRequestsTotal.WithLabelValues("200", "get")
	rejected := upstreamRequestsTotal.WithLabelValues("422", "patch")
	okBefore := testutil.ToFloat64(okCounter)
	rejectedBefore := testutil.ToFloat64(rejected)

	resp, err := client.Get(upstream.URL)
	require.NoError(t, err)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPatch, upstream.URL, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, okBefore+1, testutil.ToFloat64(okCounter))
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(rejected))
	assert.Zero(t, testutil.ToFloat64(upstreamInFlight))
}

func TestInstrumentTransportPassesErrors(t *testing.T) {
	boom := errors.New("dial refused")
	rt := InstrumentTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}))

	req := httptest.NewRequest(http.MethodGet, "http://airtable.invalid/v0/app/tbl", nil)
	req.RequestURI = ""
	_, err := rt.RoundTrip(req)
	assert.ErrorIs(t, err, boom)
}
