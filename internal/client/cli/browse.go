package cli

import (
	"context"

	"paneldesk/internal/client/models"
	"paneldesk/internal/client/tui"
)

// browseFilters are the quick filters offered per collection in the browser.
var browseFilters = map[models.Resource][]tui.FilterOption{
	models.ResourceProjects: {
		{Key: "status", Value: "published"},
		{Key: "status", Value: "draft"},
	},
	models.ResourceActivities: {
		{Key: "type", Value: "news"},
		{Key: "type", Value: "events"},
	},
	models.ResourceMessages: {
		{Key: "read", Value: "false"},
		{Key: "read", Value: "true"},
	},
}

// Browse opens the full-screen browser on the collection.
func (a *App) Browse(ctx context.Context, resource string) error {
	res, err := parseResource(resource)
	if err != nil {
		return err
	}

	return tui.Run(ctx, a.client, res, tui.Options{
		DebounceWindow: a.config.DebounceWindow,
		PageSize:       a.config.PageSize,
		Filters:        browseFilters[res],
	})
}
