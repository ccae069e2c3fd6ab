package exports

import "time"

// Export is one stored export artifact.
type Export struct {
	ID         string
	OwnerID    string
	SessionID  string
	TemplateID string
	Format     string
	Title      string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
