package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/pkg/config"
	"github.com/openkenya/countymap/pkg/httputil"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	boundariesURL string
	recordsURL    string
	boundaries    string // local destination for the boundary dataset
	records       string // local destination for the record dataset
}

// newFetchCmd creates the fetch command. It downloads the boundary and
// record datasets to their configured local paths, revalidating against
// the server so unchanged files cost a single 304 round trip.
func newFetchCmd(configPath *string) *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the boundary and record datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runFetch(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.boundariesURL, "boundaries-url", "", "boundary GeoJSON URL (overrides config)")
	cmd.Flags().StringVar(&opts.recordsURL, "records-url", "", "record dataset URL (overrides config)")
	cmd.Flags().StringVarP(&opts.boundaries, "boundaries", "b", "", "local boundary path (overrides config)")
	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "local record path (overrides config)")

	return cmd
}

func runFetch(ctx context.Context, cfg config.Config, opts *fetchOpts) error {
	logger := loggerFromContext(ctx)

	boundariesURL := opts.boundariesURL
	if boundariesURL == "" {
		boundariesURL = cfg.Data.BoundariesURL
	}
	recordsURL := opts.recordsURL
	if recordsURL == "" {
		recordsURL = cfg.Data.RecordsURL
	}
	if boundariesURL == "" && recordsURL == "" {
		return fmt.Errorf("no dataset URLs configured; set data.boundaries_url / data.records_url or pass --boundaries-url / --records-url")
	}

	boundariesPath := opts.boundaries
	if boundariesPath == "" {
		boundariesPath = cfg.Data.Boundaries
	}
	recordsPath := opts.records
	if recordsPath == "" {
		recordsPath = cfg.Data.Records
	}

	fetched := 0
	for _, target := range []struct {
		name, url, dest string
	}{
		{"boundaries", boundariesURL, boundariesPath},
		{"records", recordsURL, recordsPath},
	} {
		if target.url == "" {
			continue
		}
		prog := newProgress(logger)
		var res httputil.DownloadResult
		err := httputil.RetryWithBackoff(ctx, func() error {
			var err error
			res, err = httputil.Download(ctx, nil, target.url, target.dest)
			return err
		})
		if err != nil {
			return fmt.Errorf("fetch %s: %w", target.name, err)
		}
		if res.NotModified {
			prog.done(fmt.Sprintf("%s unchanged", target.name))
			printInfo("%s is up to date", target.name)
		} else {
			prog.done(fmt.Sprintf("Fetched %s (%d bytes)", target.name, res.Bytes))
			printSuccess("Fetched %s", target.name)
			fetched++
		}
		printFile(target.dest)
	}

	if fetched > 0 {
		printDetail("run 'countymap place' to update placements")
	}
	return nil
}
