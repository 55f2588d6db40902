package models

import "encoding/json"

// Resource names the backend collections the dashboard manages.
type Resource string

const (
	ResourceProjects   Resource = "projects"
	ResourceActivities Resource = "activities"
	ResourceReports    Resource = "reports"
	ResourcePartners   Resource = "partners"
	ResourceUsers      Resource = "users"
	ResourceMessages   Resource = "messages"
	ResourceArchive    Resource = "archive"
	ResourceMedia      Resource = "media"
)

// ListResult is one page of a collection plus pagination metadata, exactly as
// the backend reports it.
type ListResult struct {
	Items      []json.RawMessage `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// DecodeItems unmarshals every raw item into T, stopping at the first error.
func DecodeItems[T any](res ListResult) ([]T, error) {
	out := make([]T, 0, len(res.Items))
	for _, raw := range res.Items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FileKind selects the upload endpoint variant.
type FileKind string

const (
	FileKindImage    FileKind = "image"
	FileKindImages   FileKind = "images"
	FileKindDocument FileKind = "document"
)

// FileRef is the backend's description of a stored upload.
type FileRef struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}
