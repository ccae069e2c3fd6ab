package exports

import "time"

// ExportResponse is the outward-facing representation of an export.
type ExportResponse struct {
	ExportID    string    `json:"exportId"`
	SessionID   string    `json:"sessionId"`
	TemplateID  string    `json:"templateId"`
	Format      string    `json:"format"`
	Title       string    `json:"title"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}

// ToResponse maps a record to its API shape.
func ToResponse(e Export) ExportResponse {
	return ExportResponse{
		ExportID:    e.ID,
		SessionID:   e.SessionID,
		TemplateID:  e.TemplateID,
		Format:      e.Format,
		Title:       e.Title,
		MimeType:    e.MimeType,
		SizeBytes:   e.SizeBytes,
		CreatedAt:   e.CreatedAt,
		DownloadURL: "/api/v1/exports/" + e.ID + "/download",
	}
}
