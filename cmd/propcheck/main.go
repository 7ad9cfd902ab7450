// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// propcheck is the terminal front end to the propagation checker: the same
// fan-out the server runs, without standing up the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dnstool/propagation/internal/output"
	"dnstool/propagation/internal/propagation"
)

func main() {
	var (
		recordType string
		timeoutMs  int
		asJSON     bool
	)

	root := &cobra.Command{
		Use:   "propcheck domain [flags]",
		Short: "Check DNS propagation across public DoH resolvers",
		Long: `Check whether a DNS record has finished propagating by querying several
independent public DoH resolvers concurrently and comparing their answers.

Exit status is 0 when all responding resolvers agree, 1 otherwise.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := propagation.New()
			report, err := checker.Check(cmd.Context(), args[0], recordType, fmt.Sprintf("%d", timeoutMs))
			if err != nil {
				return err
			}

			if asJSON {
				rendered, err := output.RenderJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), output.RenderPretty(report))
			}

			if !report.Summary.FullyPropagated || report.Summary.InsufficientData {
				os.Exit(1)
			}
			return nil
		},
	}

	root.Flags().StringVarP(&recordType, "type", "t", "A", "record type (A, AAAA, CNAME, MX, TXT, NS, SOA, CAA)")
	root.Flags().IntVar(&timeoutMs, "timeout-ms", 6000, "per-resolver timeout in milliseconds (clamped to 2000-12000)")
	root.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "propcheck:", err)
		os.Exit(2)
	}
}
