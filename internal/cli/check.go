package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/layerlint/internal/checker"
)

// ErrChecksFailed signals that at least one processed record
// accumulated an error; main maps it to a non-zero exit code.
var ErrChecksFailed = errors.New("errors occurred, see logs above")

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check source record files against their live services",
		Long: "Check validates each given .geojson source record. Files without the\n" +
			".geojson extension or that do not exist are skipped silently (visible\n" +
			"at debug verbosity). The exit code is non-zero when any processed\n" +
			"record had at least one error.",
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	runner := checker.New(cfg, log)
	res := runner.Run(cmd.Context(), args)
	if res.Broken {
		return ErrChecksFailed
	}
	return nil
}
