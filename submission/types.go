package submission

import (
	"strings"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/filter"
)

// Review status values of the "Automation - Status" column
const (
	// StatusPending marks a submission that is not ready for review yet
	StatusPending = "1-Pending Submission"
)

// Fields is one row of the submissions table. Tags carry the Airtable
// column names.
type Fields struct {
	RepoURL            string                `json:"Code URL,omitempty"`
	Screenshot         []airtable.Attachment `json:"Screenshot,omitempty"`
	Description        string                `json:"Description,omitempty"`
	Hours              float64               `json:"Optional - Override Hours Spent,omitempty"`
	QRCode             []airtable.Attachment `json:"qr_code,omitempty"`
	GalleryAttribution string                `json:"gallery_attribution,omitempty"`
	OS                 string                `json:"os,omitempty"`
	Architecture       string                `json:"architecture,omitempty"`
	Name               string                `json:"project_name,omitempty"`
	Status             string                `json:"Automation - Status,omitempty"`
}

// Record is a submission as stored in Airtable
type Record = airtable.Record[Fields]

// statusPatch updates only the status column
type statusPatch struct {
	Status string `json:"Automation - Status"`
}

// IsPending reports whether the submission is still waiting to be completed
func (f Fields) IsPending() bool {
	return f.Status == StatusPending
}

// Columns lists the Airtable column names of Fields, in declaration order
func Columns() []string {
	return []string{
		"Code URL",
		"Screenshot",
		"Description",
		"Optional - Override Hours Spent",
		"qr_code",
		"gallery_attribution",
		"os",
		"architecture",
		"project_name",
		"Automation - Status",
	}
}

// subject exposes a record to filter expressions
type subject Record

// FilterEnv implements filter.Subject
func (s subject) FilterEnv() map[string]any {
	f := s.Fields
	return map[string]any{
		"ID":                 string(s.ID),
		"Created":            s.CreatedTime,
		"Name":               f.Name,
		"Status":             f.Status,
		"Description":        f.Description,
		"RepoURL":            f.RepoURL,
		"Hours":              f.Hours,
		"OS":                 f.OS,
		"Architecture":       f.Architecture,
		"GalleryAttribution": f.GalleryAttribution,
		"Screenshots":        len(f.Screenshot),
		"HasQRCode":          len(f.QRCode) > 0,
		"Pending":            f.IsPending(),
		"HasRepo":            strings.TrimSpace(f.RepoURL) != "",
	}
}

// filters type-checks expressions against the variables FilterEnv exposes
var filters = filter.NewExprCompiler(
	filter.WithCache(64),
	filter.WithVariables(subject(Record{}).FilterEnv()),
)

// CompileFilter compiles an expression over submission variables. Unknown
// names and non-bool expressions are rejected. An empty expression matches
// every record.
func CompileFilter(expression string) (filter.CompiledFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return filter.MatchAll(), nil
	}
	return filters.Compile(expression)
}

func subjects(records []Record) []subject {
	out := make([]subject, len(records))
	for i, r := range records {
		out[i] = subject(r)
	}
	return out
}

// Matching returns the records accepted by f, keeping their order
func Matching(records []Record, f filter.Filter) []Record {
	selected := filter.Select(f, subjects(records))
	out := make([]Record, len(selected))
	for i, s := range selected {
		out[i] = Record(s)
	}
	return out
}
