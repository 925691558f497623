package airtable

import "time"

// RecordID is an opaque, server-assigned record identifier such as "recXXXXXXXXXXXXXX".
type RecordID string

// String returns the identifier
func (id RecordID) String() string {
	return string(id)
}

// Record pairs a record's identity with a caller-defined field payload.
//
// T is mapped through encoding/json, so column names that differ from Go
// field names are declared with struct tags:
//
//	type Row struct {
//		RepoURL string `json:"Code URL"`
//	}
type Record[T any] struct {
	ID          RecordID  `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      T         `json:"fields"`
}

// listPage is one response of the list endpoint
type listPage[T any] struct {
	Records []Record[T] `json:"records"`
	Offset  string      `json:"offset,omitempty"`
}

// updateRequest is the PATCH body. It never carries createdTime.
type updateRequest[P any] struct {
	Typecast bool `json:"typecast"`
	Fields   P    `json:"fields"`
}

// Attachment is one item of an attachment column
type Attachment struct {
	ID         string      `json:"id"`
	URL        string      `json:"url"`
	Filename   string      `json:"filename"`
	Size       int64       `json:"size"`
	Type       string      `json:"type"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Thumbnails *Thumbnails `json:"thumbnails,omitempty"`
}

// Thumbnails holds the generated previews of an image attachment
type Thumbnails struct {
	Small Thumbnail `json:"small"`
	Large Thumbnail `json:"large"`
	Full  Thumbnail `json:"full"`
}

// Thumbnail is a single preview image
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// IsImage reports whether the attachment has an image content type
func (a Attachment) IsImage() bool {
	return len(a.Type) > 6 && a.Type[:6] == "image/"
}
