package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/foomo/otaserver/pkg/mimetype"
	"github.com/foomo/otaserver/pkg/source"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type inspectResult struct {
	Location    string `json:"location"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	SHA256      string `json:"sha256"`
}

func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <binary_file>...",
		Short: "Print what would be served for the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := inspect(cmd.Context(), mimetype.OTA, args...)
			if err != nil {
				return err
			}
			return writeInspectResults(cmd.OutOrStdout(), results)
		},
	}
	return cmd
}

// inspect reads all locations concurrently, results keep the order of locations
func inspect(ctx context.Context, typer mimetype.ContentTyper, locations ...string) ([]inspectResult, error) {
	results := make([]inspectResult, len(locations))
	g, gCtx := errgroup.WithContext(ctx)
	for i, location := range locations {
		g.Go(func() error {
			src, err := source.Open(gCtx, location)
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", location)
			}
			defer src.Close()

			data, err := src.Read(gCtx)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			results[i] = inspectResult{
				Location:    location,
				Name:        src.Name(),
				ContentType: typer.TypeByName(src.Name()),
				Size:        len(data),
				SHA256:      hex.EncodeToString(sum[:]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeInspectResults(w io.Writer, results []inspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, result := range results {
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
	}
	return nil
}
