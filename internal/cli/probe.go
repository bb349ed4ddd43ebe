// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/logger"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

func newProbeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the analysis service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Close()
			client := newClient(rt.cfg)
			return reportProbe(cmd.OutOrStdout(), client.BaseURL(), client.Probe(cmd.Context()))
		},
	}
}

// reportProbe prints the probe outcome and returns a NetworkError for an
// unreachable service.
func reportProbe(w io.Writer, baseURL string, err error) error {
	if err == nil {
		fmt.Fprintln(w, styles.RenderSuccess("analysis service reachable at "+baseURL))
		return nil
	}
	if analysis.IsTransport(err) {
		return &NetworkError{URL: baseURL, Err: err}
	}
	fmt.Fprintln(w, styles.RenderWarning(fmt.Sprintf("analysis service at %s answered: %v", baseURL, err)))
	return err
}
