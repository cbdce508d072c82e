package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/layerlint/internal/app"
)

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose record validation over HTTP",
		Long: "Serve runs the validation pipeline behind an HTTP API: POST a source\n" +
			"record to /api/v1/validate and receive its good/warning/error messages.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return app.New(cfg, log).Run()
}
