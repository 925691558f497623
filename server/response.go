package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/submission"
)

// noMoreSubmissions is the body of a 404 from /nextrecord
const noMoreSubmissions = "No additional submissions to review."

// errorResponse is the body of every error reply
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// submissionResponse is a record as the review UI consumes it
type submissionResponse struct {
	ID          airtable.RecordID `json:"id"`
	CreatedTime time.Time         `json:"created_time"`
	Fields      submissionFields  `json:"fields"`
}

type submissionFields struct {
	RepoURL            string                `json:"repo_url"`
	Screenshot         []airtable.Attachment `json:"screenshot"`
	Description        string                `json:"description"`
	Hours              float64               `json:"hours"`
	QRCode             []airtable.Attachment `json:"qr_code"`
	GalleryAttribution string                `json:"gallery_attribution"`
	OS                 string                `json:"os"`
	Architecture       string                `json:"architecture"`
	Name               string                `json:"name"`
	Status             string                `json:"status"`
}

func newSubmissionResponse(r *submission.Record) submissionResponse {
	f := r.Fields
	return submissionResponse{
		ID:          r.ID,
		CreatedTime: r.CreatedTime,
		Fields: submissionFields{
			RepoURL:            f.RepoURL,
			Screenshot:         nonNil(f.Screenshot),
			Description:        f.Description,
			Hours:              f.Hours,
			QRCode:             nonNil(f.QRCode),
			GalleryAttribution: f.GalleryAttribution,
			OS:                 f.OS,
			Architecture:       f.Architecture,
			Name:               f.Name,
			Status:             f.Status,
		},
	}
}

func newSubmissionList(records []submission.Record) []submissionResponse {
	out := make([]submissionResponse, len(records))
	for i := range records {
		out[i] = newSubmissionResponse(&records[i])
	}
	return out
}

func nonNil(a []airtable.Attachment) []airtable.Attachment {
	if a == nil {
		return []airtable.Attachment{}
	}
	return a
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}

// statusFor maps a service error to the HTTP status and message returned
// to the client
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, submission.ErrNoPendingSubmission):
		return http.StatusNotFound, noMoreSubmissions
	case errors.Is(err, submission.ErrIndexOutOfRange):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, submission.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	}

	var apiErr *airtable.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return http.StatusNotFound, "record not found"
		case apiErr.IsUnprocessable():
			return http.StatusUnprocessableEntity, apiErr.Body
		case apiErr.IsRateLimited():
			return http.StatusServiceUnavailable, "airtable rate limit exceeded, retry later"
		case apiErr.IsUnauthorized():
			return http.StatusBadGateway, "airtable rejected the configured credentials"
		default:
			return http.StatusBadGateway, apiErr.Error()
		}
	}

	var transportErr *airtable.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout, "airtable request timed out"
		}
		return http.StatusBadGateway, "airtable is unreachable"
	}

	switch airtable.KindOf(err) {
	case airtable.KindSerialization:
		return http.StatusBadGateway, "unexpected response from airtable"
	case airtable.KindURL:
		return http.StatusInternalServerError, "invalid airtable target"
	}

	return http.StatusInternalServerError, "internal server error"
}
