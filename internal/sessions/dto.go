package sessions

import (
	"time"

	"resume-builder/internal/notify"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
	"resume-builder/resume/richtext"
)

type createRequest struct {
	Empty    bool   `json:"empty"`
	Template string `json:"templateId"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type entryUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type moveRequest struct {
	To *int `json:"to" binding:"required"`
}

type toolsRequest struct {
	Text string `json:"text"`
}

type templateRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

type tabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

type previewRequest struct {
	Action string `json:"action" binding:"required"`
	Delta  int    `json:"delta"`
}

type exportRequest struct {
	Format string `json:"format"`
}

type formatRequest struct {
	Section   string         `json:"section" binding:"required"`
	Index     int            `json:"index"`
	Field     string         `json:"field" binding:"required"`
	Command   string         `json:"command" binding:"required"`
	Selection richtext.Range `json:"selection"`
}

type applyRequest struct {
	HTML      string         `json:"html"`
	Selection richtext.Range `json:"selection"`
	Command   string         `json:"command" binding:"required"`
}

// SessionResponse is the outward-facing representation of a session.
type SessionResponse struct {
	SessionID     string                `json:"sessionId"`
	Template      render.Template       `json:"template"`
	ActiveTab     Tab                   `json:"activeTab"`
	Preview       PreviewResponse       `json:"preview"`
	Document      model.Document        `json:"document"`
	Notifications []notify.Notification `json:"notifications"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// SessionSummary is the list view of a session.
type SessionSummary struct {
	SessionID  string            `json:"sessionId"`
	FullName   string            `json:"fullName"`
	TemplateID render.TemplateID `json:"templateId"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type PreviewResponse struct {
	preview.Controller
	Style string `json:"style"`
}

// RenderResponse carries preview markup and how to display it.
type RenderResponse struct {
	TemplateID render.TemplateID `json:"templateId"`
	HTML       string            `json:"html"`
	Preview    PreviewResponse   `json:"preview"`
}

type FormatResponse struct {
	State   richtext.State  `json:"state"`
	Session SessionResponse `json:"session"`
}

// ToResponse maps a session to its API shape as of now.
func ToResponse(s Session, now time.Time) SessionResponse {
	notes := []notify.Notification{}
	if s.Notifications != nil {
		notes = s.Notifications.List(now)
	}
	return SessionResponse{
		SessionID:     s.ID,
		Template:      render.Info(s.Template),
		ActiveTab:     s.ActiveTab,
		Preview:       toPreview(s.Preview),
		Document:      s.Document,
		Notifications: notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func ToSummary(s Session) SessionSummary {
	return SessionSummary{
		SessionID:  s.ID,
		FullName:   s.Document.Personal.FullName,
		TemplateID: s.Template,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toPreview(p preview.Controller) PreviewResponse {
	return PreviewResponse{Controller: p, Style: p.Style()}
}
