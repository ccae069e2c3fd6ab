package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/exports"
	"resume-builder/internal/notify"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
	"resume-builder/resume/richtext"
	"resume-builder/resume/store"
)

// Service runs editor operations against sessions. Each operation on a
// session holds that session's lock for its whole read-modify-write.
type Service struct {
	Repo     Repo
	Store    *store.Store
	Renderer *render.Renderer
	Exporter *export.Controller
	// Exports keeps artifacts and their history. Nil skips recording.
	Exports    *exports.Service
	SampleData bool
	NoticeTTL  time.Duration
	Now        func() time.Time

	locks sync.Map
}

// CreateInput configures a new session.
type CreateInput struct {
	// Empty starts from a blank document instead of the sample data.
	Empty    bool
	Template string
}

// Create starts a session on the template gallery.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Session, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Session{}, ErrInvalidInput
	}
	tpl := render.DefaultTemplate
	if strings.TrimSpace(in.Template) != "" {
		id, ok := render.ParseTemplateID(in.Template)
		if !ok {
			return Session{}, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, in.Template)
		}
		tpl = id
	}
	doc := model.Empty()
	if s.SampleData && !in.Empty {
		doc = model.Sample()
	}

	now := s.now()
	sess := Session{
		ID:            newID(),
		OwnerID:       ownerID,
		Document:      doc,
		Template:      tpl,
		Preview:       preview.Default(),
		ActiveTab:     TabTemplates,
		Notifications: notify.NewQueue(s.NoticeTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	metrics.IncSessionCreated()
	telemetry.Info("session.created", map[string]any{
		"session_id":  sess.ID,
		"user_id":     ownerID,
		"template_id": string(tpl),
		"sample":      s.SampleData && !in.Empty,
	})
	return sess, nil
}

func (s *Service) Get(ctx context.Context, ownerID, sessionID string) (Session, error) {
	if ownerID == "" || sessionID == "" {
		return Session{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, ownerID, sessionID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Session, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()
	if err := s.Repo.Delete(ctx, ownerID, sessionID); err != nil {
		return err
	}
	s.locks.Delete(sessionID)
	return nil
}

// Sweep evicts idle sessions.
func (s *Service) Sweep(now time.Time) int {
	removed := s.Repo.Sweep(now)
	for _, id := range removed {
		s.locks.Delete(id)
	}
	if len(removed) > 0 {
		telemetry.Info("session.swept", map[string]any{"count": len(removed)})
	}
	return len(removed)
}

// SweepEvery runs Sweep on the interval until stop is closed.
func (s *Service) SweepEvery(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}

func (s *Service) SetPersonalField(ctx context.Context, ownerID, sessionID, field, value string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		f, err := model.ParsePersonalField(field)
		if err != nil {
			return doc, err
		}
		return s.Store.SetPersonalField(doc, f, value)
	})
}

// UpdatePersonal replaces several personal fields in one change.
func (s *Service) UpdatePersonal(ctx context.Context, ownerID, sessionID string, values map[string]string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		out := doc
		for name, value := range values {
			f, err := model.ParsePersonalField(name)
			if err != nil {
				return doc, err
			}
			if out, err = s.Store.SetPersonalField(out, f, value); err != nil {
				return doc, err
			}
		}
		return out, nil
	})
}

// AddEntry appends a blank entry; it is the last one of the section.
func (s *Service) AddEntry(ctx context.Context, ownerID, sessionID, section string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		sec, err := model.ParseSection(section)
		if err != nil {
			return doc, err
		}
		return s.Store.AddEntry(doc, sec)
	})
}

func (s *Service) UpdateEntry(ctx context.Context, ownerID, sessionID, section string, index int, field, value string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		sec, err := model.ParseSection(section)
		if err != nil {
			return doc, err
		}
		return s.Store.UpdateEntry(doc, sec, index, field, value)
	})
}

// ToolsField is the pseudo field that sets a skill's tools from text.
const ToolsField = "tools"

// UpdateEntryFields replaces several fields of one entry in one change.
func (s *Service) UpdateEntryFields(ctx context.Context, ownerID, sessionID, section string, index int, values map[string]string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		sec, err := model.ParseSection(section)
		if err != nil {
			return doc, err
		}
		out := doc
		for field, value := range values {
			if sec == model.SectionSkills && field == ToolsField {
				out, err = s.Store.SetSkillTools(out, index, value)
			} else {
				out, err = s.Store.UpdateEntry(out, sec, index, field, value)
			}
			if err != nil {
				return doc, err
			}
		}
		return out, nil
	})
}

func (s *Service) RemoveEntry(ctx context.Context, ownerID, sessionID, section string, index int) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		sec, err := model.ParseSection(section)
		if err != nil {
			return doc, err
		}
		return s.Store.RemoveEntry(doc, sec, index)
	})
}

func (s *Service) MoveEntry(ctx context.Context, ownerID, sessionID, section string, from, to int) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		sec, err := model.ParseSection(section)
		if err != nil {
			return doc, err
		}
		return s.Store.MoveEntry(doc, sec, from, to)
	})
}

// SetSkillTools replaces a skill's tools from comma-separated text.
func (s *Service) SetSkillTools(ctx context.Context, ownerID, sessionID string, index int, raw string) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		return s.Store.SetSkillTools(doc, index, raw)
	})
}

// DocumentFormat is the encoding used to import or download a document.
type DocumentFormat string

const (
	DocumentYAML DocumentFormat = "yaml"
	DocumentJSON DocumentFormat = "json"
)

func ParseDocumentFormat(raw string) (DocumentFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "yaml", "yml":
		return DocumentYAML, nil
	case "json":
		return DocumentJSON, nil
	}
	return "", fmt.Errorf("%w: unknown document format %q", ErrInvalidInput, raw)
}

func (f DocumentFormat) ContentType() string {
	if f == DocumentJSON {
		return "application/json"
	}
	return "application/yaml"
}

// ImportDocument replaces the session's document. Entries without a unique id
// get a fresh one.
func (s *Service) ImportDocument(ctx context.Context, ownerID, sessionID string, format DocumentFormat, data []byte) (Session, error) {
	return s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		imported, err := decodeDocument(format, data)
		if err != nil {
			return doc, err
		}
		return s.Store.AssignIDs(imported), nil
	})
}

// DocumentBytes encodes the session's document.
func (s *Service) DocumentBytes(ctx context.Context, ownerID, sessionID string, format DocumentFormat) ([]byte, error) {
	sess, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if format == DocumentJSON {
		return json.MarshalIndent(sess.Document, "", "  ")
	}
	return model.EncodeYAML(sess.Document)
}

func decodeDocument(format DocumentFormat, data []byte) (model.Document, error) {
	if len(data) == 0 {
		return model.Document{}, fmt.Errorf("%w: empty document", ErrInvalidInput)
	}
	if format == DocumentJSON {
		var doc model.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return model.Document{}, fmt.Errorf("%w: decode resume json: %v", ErrInvalidInput, err)
		}
		doc.Normalize()
		return doc, nil
	}
	doc, err := model.DecodeYAML(data)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return doc, nil
}

// SelectTemplate switches the variant. The active tab and preview state are
// left as they are.
func (s *Service) SelectTemplate(ctx context.Context, ownerID, sessionID, raw string) (Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(sess *Session) error {
		id, ok := render.ParseTemplateID(raw)
		if !ok {
			return fmt.Errorf("%w: unknown template %q", ErrInvalidInput, raw)
		}
		sess.Template = id
		return nil
	})
}

func (s *Service) SetTab(ctx context.Context, ownerID, sessionID, raw string) (Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(sess *Session) error {
		tab, err := ParseTab(raw)
		if err != nil {
			return err
		}
		sess.ActiveTab = tab
		return nil
	})
}

// PreviewAction is one preview control.
type PreviewAction string

const (
	PreviewZoomIn     PreviewAction = "zoomIn"
	PreviewZoomOut    PreviewAction = "zoomOut"
	PreviewReset      PreviewAction = "reset"
	PreviewFullscreen PreviewAction = "toggleFullscreen"
	// PreviewChange applies an arbitrary scale delta.
	PreviewChange PreviewAction = "change"
)

// UpdatePreview applies action to the preview state. Delta is read only for
// PreviewChange.
func (s *Service) UpdatePreview(ctx context.Context, ownerID, sessionID string, action PreviewAction, delta int) (Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(sess *Session) error {
		switch action {
		case PreviewZoomIn:
			sess.Preview = sess.Preview.ZoomIn()
		case PreviewZoomOut:
			sess.Preview = sess.Preview.ZoomOut()
		case PreviewReset:
			sess.Preview = sess.Preview.Reset()
		case PreviewFullscreen:
			sess.Preview = sess.Preview.ToggleFullscreen()
		case PreviewChange:
			sess.Preview = sess.Preview.Change(delta)
		default:
			return fmt.Errorf("%w: unknown preview action %q", ErrInvalidInput, action)
		}
		return nil
	})
}

// Render returns the preview markup for the session's template and document.
func (s *Service) Render(ctx context.Context, ownerID, sessionID string) (string, Session, error) {
	sess, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return "", Session{}, err
	}
	markup, err := s.render(sess)
	return markup, sess, err
}

func (s *Service) render(sess Session) (string, error) {
	start := time.Now()
	markup, err := s.Renderer.Render(sess.Template, sess.Document)
	if err != nil {
		return "", err
	}
	metrics.ObserveRender(string(sess.Template), float64(time.Since(start).Milliseconds()))
	return markup, nil
}

// FormatInput targets one HTML field: the personal summary, or the
// description of an entry.
type FormatInput struct {
	Section   string
	Index     int
	Field     string
	Command   string
	Selection richtext.Range
}

// FormatField runs a toolbar command against an HTML field and stores the
// result. The returned state carries the new fragment and selection.
func (s *Service) FormatField(ctx context.Context, ownerID, sessionID string, in FormatInput) (Session, richtext.State, error) {
	var state richtext.State
	sess, err := s.editDocument(ctx, ownerID, sessionID, func(doc model.Document) (model.Document, error) {
		cmd, err := richtext.ParseCommand(in.Command)
		if err != nil {
			return doc, err
		}
		current, write, err := s.htmlField(doc, in)
		if err != nil {
			return doc, err
		}
		state = richtext.State{HTML: current, Selection: in.Selection}
		state, err = richtext.Apply(state, cmd)
		if err != nil {
			return doc, err
		}
		return write(state.HTML)
	})
	if err != nil {
		return Session{}, richtext.State{}, err
	}
	return sess, state, nil
}

func (s *Service) htmlField(doc model.Document, in FormatInput) (string, func(string) (model.Document, error), error) {
	if strings.EqualFold(strings.TrimSpace(in.Section), "personal") {
		field, err := model.ParsePersonalField(in.Field)
		if err != nil {
			return "", nil, err
		}
		if field != model.FieldSummary {
			return "", nil, fmt.Errorf("%w: personal.%s is plain text", ErrInvalidInput, field)
		}
		return doc.Personal.Get(field), func(v string) (model.Document, error) {
			return s.Store.SetPersonalField(doc, field, v)
		}, nil
	}
	sec, err := model.ParseSection(in.Section)
	if err != nil {
		return "", nil, err
	}
	current, err := store.EntryField(doc, sec, in.Index, in.Field)
	if err != nil {
		return "", nil, err
	}
	if !model.IsHTMLField(sec, in.Field) {
		return "", nil, fmt.Errorf("%w: %s.%s is plain text", ErrInvalidInput, sec, in.Field)
	}
	return current, func(v string) (model.Document, error) {
		return s.Store.UpdateEntry(doc, sec, in.Index, in.Field, v)
	}, nil
}

// ExportResult is a produced artifact and, when kept, its history record.
type ExportResult struct {
	Artifact export.Artifact
	Record   *exports.Export
	FileName string
}

// Export renders the session and produces the artifact. Failures are also
// queued as error notifications on the session.
func (s *Service) Export(ctx context.Context, ownerID, sessionID string, format export.Format) (ExportResult, error) {
	sess, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return ExportResult{}, err
	}

	start := time.Now()
	result, err := s.export(ctx, sess, format)
	if err != nil {
		metrics.IncExportFailed()
		sess.Notifications.Push(s.now(), notify.LevelError, exportFailureMessage(err))
		telemetry.Error("export.failed", map[string]any{
			"session_id":  sess.ID,
			"user_id":     ownerID,
			"template_id": string(sess.Template),
			"format":      string(format),
			"error":       err,
		})
		return ExportResult{}, err
	}
	metrics.ObserveExport(string(format), float64(time.Since(start).Milliseconds()))
	sess.Notifications.Push(s.now(), notify.LevelSuccess, "Exported "+result.FileName)
	return result, nil
}

func (s *Service) export(ctx context.Context, sess Session, format export.Format) (ExportResult, error) {
	markup, err := s.render(sess)
	if err != nil {
		return ExportResult{}, err
	}
	title := strings.TrimSpace(sess.Document.Personal.FullName)
	artifact, err := s.Exporter.Export(ctx, markup, title, format)
	if err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{
		Artifact: artifact,
		FileName: exports.FileName(title, string(sess.Template), format),
	}
	if s.Exports == nil {
		return result, nil
	}
	rec, err := s.Exports.Record(ctx, exports.RecordInput{
		OwnerID:    sess.OwnerID,
		SessionID:  sess.ID,
		TemplateID: string(sess.Template),
		Title:      title,
		Artifact:   artifact,
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("record export: %w", err)
	}
	result.Record = &rec
	return result, nil
}

func exportFailureMessage(err error) string {
	switch {
	case errors.Is(err, export.ErrPrintUnavailable):
		return "PDF export is unavailable. Download the HTML version and print it from your browser."
	case errors.Is(err, export.ErrMissingTarget):
		return "Nothing to export yet."
	default:
		return "Export failed. Please try again."
	}
}

// Notifications returns the session's visible notifications.
func (s *Service) Notifications(ctx context.Context, ownerID, sessionID string) ([]notify.Notification, error) {
	sess, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Notifications.List(s.now()), nil
}

func (s *Service) DismissNotification(ctx context.Context, ownerID, sessionID, notificationID string) error {
	sess, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return err
	}
	if !sess.Notifications.Dismiss(notificationID) {
		return ErrNotFound
	}
	return nil
}

// editDocument is mutate for operations that only replace the document.
func (s *Service) editDocument(ctx context.Context, ownerID, sessionID string, fn func(model.Document) (model.Document, error)) (Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(sess *Session) error {
		doc, err := fn(sess.Document)
		if err != nil {
			return err
		}
		sess.Document = doc
		return nil
	})
}

// mutate loads the session, applies fn and saves it. When fn fails nothing
// is saved and the error is queued as a notification.
func (s *Service) mutate(ctx context.Context, ownerID, sessionID string, fn func(*Session) error) (Session, error) {
	if ownerID == "" || sessionID == "" {
		return Session{}, ErrInvalidInput
	}
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.Repo.Get(ctx, ownerID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if err := fn(&sess); err != nil {
		metrics.IncMutation(true)
		sess.Notifications.Push(s.now(), notify.LevelError, mutationFailureMessage(err))
		return Session{}, err
	}
	sess.UpdatedAt = s.now()
	if err := s.Repo.Save(ctx, sess); err != nil {
		metrics.IncMutation(true)
		return Session{}, err
	}
	metrics.IncMutation(false)
	return sess, nil
}

func mutationFailureMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrIndexOutOfRange):
		return "That entry no longer exists."
	case errors.Is(err, model.ErrUnknownField), errors.Is(err, model.ErrUnknownSection):
		return "That field can't be edited."
	case errors.Is(err, richtext.ErrUnknownCommand):
		return "That formatting command isn't supported."
	default:
		return "Your change could not be applied."
	}
}

func (s *Service) lock(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
