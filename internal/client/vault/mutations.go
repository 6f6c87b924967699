package vault

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

const (
	mediaEndpoint = "api/media"
	noteEndpoint  = "api/note"
)

// Sender delivers mutation requests to the server.
type Sender interface {
	SendJSON(ctx context.Context, method, path string, body any) error
	SendForm(ctx context.Context, method, path string, form *client.Form) error
}

// Upload is a named stream sent as a multipart file part.
type Upload struct {
	Name    string
	Content io.Reader
}

// MediaUpload describes a new media record. Kind, File and Title are
// required; zero values of the other fields are not sent.
type MediaUpload struct {
	Kind        models.Kind
	File        Upload
	Title       string
	Description string
	Thumbnail   *Upload

	// Import options understood by the server.
	HLSTime  int
	Bitrate  string
	Resize   string
	Quality  int
	Encoding string
	Author   string
	Language string
	TOCTitle string
	MaxCTL   int
}

// MediaPatch carries the fields to change on an existing record. Empty
// fields are left as they are.
type MediaPatch struct {
	Title       string
	Description string
	Thumbnail   *Upload
}

// NoteDraft describes a new note. Title is required; Content may be empty.
type NoteDraft struct {
	Title       string
	Content     string
	Description string
	Thumbnail   *Upload
}

// Mutations sends authenticated changes to the server. It has no effect on
// the local Index; callers sync afterwards. Nothing is retried.
type Mutations interface {
	CreateMedia(ctx context.Context, m MediaUpload) error
	UpdateMedia(ctx context.Context, uid string, p MediaPatch) error
	DeleteMedia(ctx context.Context, uids []string) error
	CreateNote(ctx context.Context, n NoteDraft) error
	UpdateNote(ctx context.Context, uid, content string) error
}

type mutations struct {
	sender  Sender
	session *Session
	logger  logging.Logger
}

func NewMutations(sender Sender, session *Session, logger logging.Logger) Mutations {
	return &mutations{sender: sender, session: session, logger: logger}
}

func (m *mutations) key() (string, error) {
	k, ok := m.session.KeyHex()
	if !ok {
		return "", ErrSessionNotVerified
	}
	return k, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func addOptional(f *client.Form, name, value string) {
	if value != "" {
		f.Add(name, value)
	}
}

func addOptionalInt(f *client.Form, name string, value int) {
	if value != 0 {
		f.Add(name, strconv.Itoa(value))
	}
}

func addOptionalFile(f *client.Form, name string, u *Upload) {
	if u != nil && u.Content != nil {
		f.AddFile(name, u.Name, u.Content)
	}
}

func (m *mutations) CreateMedia(ctx context.Context, in MediaUpload) error {
	key, err := m.key()
	if err != nil {
		return err
	}
	if _, err := models.ParseKind(string(in.Kind)); err != nil {
		return invalid("%v", err)
	}
	if in.File.Content == nil || in.File.Name == "" {
		return invalid("file is required")
	}
	if in.Title == "" {
		return invalid("title is required")
	}

	f := &client.Form{}
	f.Add("key", key)
	f.Add("kind", string(in.Kind))
	f.Add("title", in.Title)
	addOptional(f, "description", in.Description)
	addOptionalInt(f, "hls_time", in.HLSTime)
	addOptional(f, "bitrate", in.Bitrate)
	addOptional(f, "resize", in.Resize)
	addOptionalInt(f, "quality", in.Quality)
	addOptional(f, "encoding", in.Encoding)
	addOptional(f, "author", in.Author)
	addOptional(f, "language", in.Language)
	addOptional(f, "toc_title", in.TOCTitle)
	addOptionalInt(f, "max_ctl", in.MaxCTL)
	f.AddFile("file", in.File.Name, in.File.Content)
	addOptionalFile(f, "thumbnail", in.Thumbnail)

	m.logger.Info(ctx, "creating media", "kind", in.Kind, "file", in.File.Name)
	return m.sender.SendForm(ctx, http.MethodPut, mediaEndpoint, f)
}

func (m *mutations) UpdateMedia(ctx context.Context, uid string, p MediaPatch) error {
	key, err := m.key()
	if err != nil {
		return err
	}
	if uid == "" {
		return invalid("uid is required")
	}

	f := &client.Form{}
	f.Add("uid", uid)
	f.Add("key", key)
	addOptional(f, "title", p.Title)
	addOptional(f, "description", p.Description)
	addOptionalFile(f, "thumbnail", p.Thumbnail)

	m.logger.Info(ctx, "updating media", "uid", uid)
	return m.sender.SendForm(ctx, http.MethodPatch, mediaEndpoint, f)
}

type deleteMediaRequest struct {
	Key  string   `json:"key"`
	UIDs []string `json:"uids"`
}

func (m *mutations) DeleteMedia(ctx context.Context, uids []string) error {
	key, err := m.key()
	if err != nil {
		return err
	}
	if len(uids) == 0 {
		return invalid("no uids given")
	}
	for _, u := range uids {
		if u == "" {
			return invalid("empty uid")
		}
	}

	m.logger.Info(ctx, "deleting media", "count", len(uids))
	return m.sender.SendJSON(ctx, http.MethodDelete, mediaEndpoint, deleteMediaRequest{Key: key, UIDs: uids})
}

func (m *mutations) CreateNote(ctx context.Context, n NoteDraft) error {
	key, err := m.key()
	if err != nil {
		return err
	}
	if n.Title == "" {
		return invalid("title is required")
	}

	f := &client.Form{}
	f.Add("key", key)
	f.Add("title", n.Title)
	f.Add("content", n.Content)
	addOptional(f, "description", n.Description)
	addOptionalFile(f, "thumbnail", n.Thumbnail)

	m.logger.Info(ctx, "creating note")
	return m.sender.SendForm(ctx, http.MethodPut, noteEndpoint, f)
}

type updateNoteRequest struct {
	Key     string `json:"key"`
	UID     string `json:"uid"`
	Content string `json:"content"`
}

func (m *mutations) UpdateNote(ctx context.Context, uid, content string) error {
	key, err := m.key()
	if err != nil {
		return err
	}
	if uid == "" {
		return invalid("uid is required")
	}

	m.logger.Info(ctx, "updating note", "uid", uid)
	return m.sender.SendJSON(ctx, http.MethodPatch, noteEndpoint, updateNoteRequest{Key: key, UID: uid, Content: content})
}
