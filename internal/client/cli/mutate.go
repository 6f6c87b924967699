package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
)

// openUpload opens path for streaming. An empty path yields a nil upload.
// The returned close func is never nil.
func openUpload(path string) (*vault.Upload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return &vault.Upload{Name: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}

// afterMutation reloads the index so the change shows up in list.
func (a *App) afterMutation(ctx context.Context, done string) error {
	printlnFn(done)
	if err := a.Sync(ctx); err != nil {
		return fmt.Errorf("change was sent but the index could not be reloaded: %w", err)
	}
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	kindText, err := getSimpleText(a.reader, "Kind (video, image, book, file)", a.out)
	if err != nil {
		return err
	}
	kind, err := models.ParseKind(kindText)
	if err != nil {
		return err
	}
	if kind == models.KindNote {
		return errors.New("use 'note' to create notes")
	}

	path, err := getSimpleText(a.reader, "File path", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("file path is required")
	}
	file, closeFile, err := openUpload(path)
	defer closeFile()
	if err != nil {
		return err
	}

	in := vault.MediaUpload{Kind: kind, File: *file}
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}

	thumbPath, err := getSimpleText(a.reader, "Thumbnail path (optional)", a.out)
	if err != nil {
		return err
	}
	thumb, closeThumb, err := openUpload(thumbPath)
	defer closeThumb()
	if err != nil {
		return err
	}
	in.Thumbnail = thumb

	if err := a.readImportOptions(&in); err != nil {
		return err
	}

	if err := a.mut.CreateMedia(ctx, in); err != nil {
		return err
	}
	return a.afterMutation(ctx, "Uploaded.")
}

// readImportOptions asks for the server-side conversion settings of the
// upload's kind. Empty answers keep the server defaults.
func (a *App) readImportOptions(in *vault.MediaUpload) error {
	var err error
	switch in.Kind {
	case models.KindVideo:
		if in.HLSTime, err = GetInt(a.reader, "HLS segment length in seconds (optional)", a.out); err != nil {
			return err
		}
		in.Bitrate, err = getSimpleText(a.reader, "Bitrate, e.g. 2M (optional)", a.out)
	case models.KindImage:
		if in.Resize, err = getSimpleText(a.reader, "Resize to WxH (optional)", a.out); err != nil {
			return err
		}
		in.Quality, err = GetInt(a.reader, "JPEG quality 1-100 (optional)", a.out)
	case models.KindBook:
		if in.Author, err = getSimpleText(a.reader, "Author (optional)", a.out); err != nil {
			return err
		}
		if in.Language, err = getSimpleText(a.reader, "Language (optional)", a.out); err != nil {
			return err
		}
		if in.Encoding, err = getSimpleText(a.reader, "Text encoding (optional)", a.out); err != nil {
			return err
		}
		if in.TOCTitle, err = getSimpleText(a.reader, "Table of contents title (optional)", a.out); err != nil {
			return err
		}
		in.MaxCTL, err = GetInt(a.reader, "Max chapter title length (optional)", a.out)
	}
	return err
}

func (a *App) Edit(ctx context.Context, uid string) error {
	r, err := a.index.MustGet(uid)
	if err != nil {
		return err
	}

	var p vault.MediaPatch
	if p.Title, err = getSimpleText(a.reader, fmt.Sprintf("Title [%s]", r.Title), a.out); err != nil {
		return err
	}
	if p.Description, err = getSimpleText(a.reader, "Description (empty to keep)", a.out); err != nil {
		return err
	}
	thumbPath, err := getSimpleText(a.reader, "Thumbnail path (empty to keep)", a.out)
	if err != nil {
		return err
	}
	thumb, closeThumb, err := openUpload(thumbPath)
	defer closeThumb()
	if err != nil {
		return err
	}
	p.Thumbnail = thumb

	if p.Title == "" && p.Description == "" && p.Thumbnail == nil {
		printlnFn("Nothing to change.")
		return nil
	}

	if err := a.mut.UpdateMedia(ctx, r.UID, p); err != nil {
		return err
	}
	return a.afterMutation(ctx, "Updated.")
}

func (a *App) Delete(ctx context.Context, uids []string) error {
	for _, uid := range uids {
		if _, err := a.index.MustGet(uid); err != nil {
			return err
		}
	}
	if !confirm(a.reader, fmt.Sprintf("Delete %d record(s)?", len(uids)), a.out) {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.mut.DeleteMedia(ctx, uids); err != nil {
		return err
	}
	return a.afterMutation(ctx, "Deleted.")
}

func (a *App) Note(ctx context.Context) error {
	var n vault.NoteDraft
	var err error
	if n.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if n.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if n.Content, err = GetMultiline(a.reader, "Content", a.out); err != nil {
		return err
	}

	if err := a.mut.CreateNote(ctx, n); err != nil {
		return err
	}
	return a.afterMutation(ctx, "Note created.")
}

func (a *App) EditNote(ctx context.Context, uid string) error {
	r, err := a.index.MustGet(uid)
	if err != nil {
		return err
	}
	if r.Kind() != models.KindNote {
		return fmt.Errorf("%s is a %s, not a note", uid, r.Kind())
	}

	current, err := a.assets.File(ctx, r)
	if err != nil {
		return fmt.Errorf("reading note content: %w", err)
	}
	printlnFn("Current content:")
	printlnFn(string(current))

	content, err := GetMultiline(a.reader, "New content", a.out)
	if err != nil {
		return err
	}
	if err := a.mut.UpdateNote(ctx, r.UID, content); err != nil {
		return err
	}
	return a.afterMutation(ctx, "Note updated.")
}
