package cli

import (
	"context"
	"errors"
	"os"

	"paneldesk/internal/common"
)

// Show fetches a single record by id and prints its raw JSON.
func (a *App) Show(ctx context.Context, resource string) error {
	res, err := parseResource(resource)
	if err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Enter record id to show", os.Stdout)
	if err != nil {
		return err
	}

	raw, err := a.client.Get(ctx, res, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such record:", id)
			return nil
		}
		return err
	}

	printlnFn(string(raw))
	return nil
}

// Delete removes a single record by id.
func (a *App) Delete(ctx context.Context, resource string) error {
	res, err := parseResource(resource)
	if err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Delete(ctx, res, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such record:", id)
			return nil
		}
		return err
	}

	printlnFn("Deleted", id)
	return nil
}
