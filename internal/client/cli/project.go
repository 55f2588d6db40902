package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"paneldesk/internal/client/models"
	"paneldesk/internal/client/services"
)

// projectPayload is the create-request body for a project record. Attachments
// are referenced by their server-assigned ids only.
type projectPayload struct {
	Title     string                 `json:"title"`
	Summary   string                 `json:"summary"`
	CoverID   string                 `json:"coverId,omitempty"`
	Gallery   []models.AttachmentRef `json:"gallery,omitempty"`
	Documents []models.AttachmentRef `json:"documents,omitempty"`
}

// NewProject runs the interactive project form. Selected files upload eagerly
// while the user keeps filling in fields; on save the server ids are attached
// to the created record, on cancel every uploaded file is cleaned up.
func (a *App) NewProject(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Project title", os.Stdout)
	if err != nil {
		return err
	}
	summary, err := GetMultiline(a.reader, "Summary", os.Stdout)
	if err != nil {
		return err
	}

	m := a.newAttachmentManager()
	saved := false
	defer func() {
		if saved {
			m.MarkSaved()
		}
		m.Reset(ctx)
	}()

	cover, err := getSimpleText(a.reader, "Cover image path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if cover != "" {
		if _, err := m.Select(ctx, models.RoleCover, cover); err != nil {
			printlnFn("Cover skipped:", err.Error())
		}
	}

	gallery, err := GetPaths(a.reader, "Gallery image paths", os.Stdout)
	if err != nil {
		return err
	}
	for _, path := range gallery {
		if _, err := m.Select(ctx, models.RoleGallery, path); err != nil {
			printlnFn("Skipped", path+":", err.Error())
		}
	}

	docs, err := GetPaths(a.reader, "Document paths (PDF)", os.Stdout)
	if err != nil {
		return err
	}
	for _, path := range docs {
		if _, err := m.Select(ctx, models.RoleDocument, path); err != nil {
			printlnFn("Skipped", path+":", err.Error())
		}
	}

	waitForUploads(ctx, m)
	reportUploads(m)

	answer, err := getSimpleText(a.reader, "Save project? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" {
		printlnFn("Cancelled, uploads cleaned up")
		return nil
	}

	payload := projectPayload{Title: title, Summary: summary}
	for _, att := range m.Attachments() {
		if !att.Uploaded() {
			continue
		}
		ref := models.AttachmentRef{ID: att.ServerID, Title: att.Title}
		switch att.Role {
		case models.RoleCover:
			payload.CoverID = att.ServerID
		case models.RoleGallery:
			payload.Gallery = append(payload.Gallery, ref)
		case models.RoleDocument:
			payload.Documents = append(payload.Documents, ref)
		}
	}

	raw, err := a.client.Create(ctx, models.ResourceProjects, payload)
	if err != nil {
		return err
	}
	saved = true

	printlnFn("Created:", string(raw))
	return nil
}

// waitForUploads blocks until no attachment is still uploading.
func waitForUploads(ctx context.Context, m *services.AttachmentManager) {
	for {
		pending := 0
		for _, att := range m.Attachments() {
			if att.Status == models.StatusUploading {
				pending++
			}
		}
		if pending == 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func reportUploads(m *services.AttachmentManager) {
	for _, att := range m.Attachments() {
		printlnFn(fmt.Sprintf("  [%s] %s %s", att.Role, att.Status, att.ServerID))
	}
}
