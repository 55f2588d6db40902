package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/config"
	"paneldesk/internal/client/services"
	"paneldesk/internal/logging"
)

// App is the interactive client: one API connection, the upload services, and
// the REPL state.
type App struct {
	config   *config.Config
	client   api.ResourceClient
	uploader *services.Uploader
	previews *services.PreviewStore
	log      logging.Logger
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr, slog.LevelInfo)

	apiClient := api.NewRESTClient(c.APIBaseURL, c.RequestTimeout, log)

	previews, err := services.NewPreviewStore(c.CacheDir)
	if err != nil {
		return nil, err
	}

	uploader := services.NewUploader(apiClient, log, c.MaxUploadSize)

	return &App{
		config:   c,
		client:   apiClient,
		uploader: uploader,
		previews: previews,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// newAttachmentManager builds a manager for one form session.
func (a *App) newAttachmentManager() *services.AttachmentManager {
	return services.NewAttachmentManager(a.uploader, a.client, a.previews,
		services.WithAttachmentLogger(a.log))
}
