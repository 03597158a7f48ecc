package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/iconsprite/internal/preview"
	"github.com/spf13/cobra"
)

// PreviewOptions holds options for the preview command.
type PreviewOptions struct {
	Open  bool
	Watch bool
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	opts := &PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a browsable gallery of the sprite",
		Long: `Build the sprite, then start a local web server with a gallery that
renders every icon through the sprite exactly as an application would.

With --watch (the default) the sprite is rebuilt on input changes and open
browsers reload automatically.`,
		Example: `  # Start the gallery on the default port
  iconsprite preview

  # Use another port and open a browser
  iconsprite preview --port 3000 --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default 4178)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the gallery in a browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Rebuild and reload on icon changes")
	cmd.Flags().Duration("debounce", 0, "Quiet period before rebuilding (default 100ms)")

	return cmd
}

func runPreview(cmd *cobra.Command, opts *PreviewOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg
	collector := cmdCtx.NewCollector(false)

	res, err := collector.Run(cmd.Context())
	if err != nil {
		return err
	}
	reportResult(cmdCtx, res)

	server := preview.NewServer(preview.Config{
		SpritePath: cfg.SpritePath,
		Port:       cfg.Preview.Port,
		Logger:     cmdCtx.Logger,
		Collector:  collector,
		Watch:      opts.Watch,
		Debounce:   cfg.Watch.Debounce,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.Preview.Port)
	if opts.Open {
		go openBrowser(url)
	}

	r.Success("Preview running at " + url)
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
