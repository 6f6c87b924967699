package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/client/models"
)

func (a *App) List(ctx context.Context, args []string) error {
	records := a.index.Records()
	if len(args) > 0 {
		kind, err := models.ParseKind(args[0])
		if err != nil {
			return err
		}
		records = a.index.ByKind(kind)
	}

	if len(records) == 0 {
		printlnFn("No records.")
		return nil
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tKIND\tSIZE\tTITLE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.UID, r.Kind(), models.HumanSize(recordSize(r)), r.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

// recordSize prefers the size of the original upload over the stored one.
func recordSize(r models.Record) int64 {
	if r.OriginalSize > 0 {
		return r.OriginalSize
	}
	return r.Size
}

func (a *App) Show(ctx context.Context, uid string) error {
	r, err := a.index.MustGet(uid)
	if err != nil {
		return err
	}

	printlnFn("Title:      ", r.Title)
	printlnFn("Kind:       ", r.Kind())
	if r.Description != "" {
		printlnFn("Description:", r.Description)
	}
	printlnFn("Created:    ", r.CreationTime)
	if r.OriginalName != "" {
		printlnFn("File:       ", r.OriginalName, "("+models.HumanSize(recordSize(r))+")")
	}
	if r.MimeType != "" {
		printlnFn("Type:       ", r.MimeType)
	}
	printlnFn("Encrypted:  ", r.Encrypted)

	switch d := r.Details.(type) {
	case models.VideoDetails:
		printlnFn("Duration:   ", time.Duration(d.Duration*float64(time.Second)).Round(time.Second))
	case models.BookDetails:
		if d.Author != "" {
			printlnFn("Author:     ", d.Author)
		}
		if d.Language != "" {
			printlnFn("Language:   ", d.Language)
		}
	case models.NoteDetails:
		body, err := a.assets.File(ctx, r)
		if err != nil {
			return fmt.Errorf("reading note content: %w", err)
		}
		printlnFn()
		printlnFn(string(body))
	}
	return nil
}

func (a *App) Get(ctx context.Context, uid string, args []string) error {
	r, err := a.index.MustGet(uid)
	if err != nil {
		return err
	}

	which := models.AssetFile
	if len(args) > 0 {
		if args[0] != "thumb" {
			printlnFn("Usage: get <uid> [thumb]")
			return nil
		}
		which = models.AssetThumbnail
	}

	path, err := a.assets.SaveTo(ctx, r, which, a.downloadDir)
	if err != nil {
		return err
	}
	printlnFn("Saved to", path)
	return nil
}
