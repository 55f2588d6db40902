package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"paneldesk/internal/client/models"
)

func parseResource(name string) (models.Resource, error) {
	switch models.Resource(name) {
	case models.ResourceProjects, models.ResourceActivities, models.ResourceReports,
		models.ResourcePartners, models.ResourceUsers, models.ResourceMessages,
		models.ResourceArchive, models.ResourceMedia:
		return models.Resource(name), nil
	case "":
		return "", fmt.Errorf("usage: <command> <resource>")
	default:
		return "", fmt.Errorf("unknown resource %q", name)
	}
}

// List prints one page of the collection. Search text and page number are
// prompted interactively; an empty page answer means page 1.
func (a *App) List(ctx context.Context, resource string) error {
	res, err := parseResource(resource)
	if err != nil {
		return err
	}

	search, err := getSimpleText(a.reader, "Search (empty for all)", os.Stdout)
	if err != nil {
		return err
	}
	pageText, err := getSimpleText(a.reader, "Page (empty for 1)", os.Stdout)
	if err != nil {
		return err
	}
	page := 1
	if pageText != "" {
		page, err = strconv.Atoi(pageText)
		if err != nil || page < 1 {
			return fmt.Errorf("invalid page %q", pageText)
		}
	}

	result, err := a.client.List(ctx, res, models.ListQuery{
		Search:   search,
		Page:     page,
		PageSize: a.config.PageSize,
	})
	if err != nil {
		return err
	}

	for _, item := range result.Items {
		printlnFn(string(item))
	}
	printlnFn(fmt.Sprintf("page %d/%d, %d total", result.Page, result.TotalPages, result.Total))
	return nil
}
