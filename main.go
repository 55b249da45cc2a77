package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/asaidimu/go-reshape/core/document"
	"github.com/asaidimu/go-reshape/core/transform"
	"github.com/asaidimu/go-reshape/records"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "reshape",
		Short:         "Extract typed records from semi-structured documents",
		Long:          "reshape loads a JSON document, drives the declarative field bindings of one or more record types against it, validates the results, and pretty-prints them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var (
		inputPath  string
		codesPath  string
		recordName string
		verbose    bool
		showEvents bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transform a document into one or all record types",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				logger, err = zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				defer logger.Sync()
			}

			// The lookup asset is load-bearing for the operator set: a
			// missing or malformed table aborts before any document is read.
			table, err := transform.LoadLookupTable(codesPath)
			if err != nil {
				return err
			}

			runner, err := records.NewRunner(table, logger)
			if err != nil {
				return err
			}

			if showEvents {
				for _, ev := range []records.TransformEventType{records.TransformStart, records.TransformSuccess, records.ValidationFailed} {
					runner.RegisterSubscription(records.RegisterSubscriptionOptions{
						Event: ev,
						Callback: func(ctx context.Context, event records.TransformEvent) error {
							fmt.Fprintf(os.Stderr, "[event] %s record=%s run=%s\n", event.Type, event.Record, event.RunID)
							return nil
						},
					})
				}
			}

			doc, err := loadDocument(inputPath)
			if err != nil {
				return err
			}

			results := make(map[string]*records.RunResult)
			if recordName == "all" {
				results = runner.RunAll(doc)
			} else {
				result, err := runner.Run(recordName, doc)
				if err != nil {
					return err
				}
				results[recordName] = result
			}

			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render results: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			for _, result := range results {
				if !result.Validation.Valid {
					return fmt.Errorf("validation failed for record %q with %d issue(s)", result.Record, len(result.Validation.Issues))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the JSON document to transform")
	cmd.Flags().StringVar(&codesPath, "codes", "", "path to the code-to-name lookup table (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&recordName, "record", "all", "record type to produce (identity, visa, address_employment, customer_profile, or all)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable development logging")
	cmd.Flags().BoolVar(&showEvents, "events", false, "print lifecycle events to stderr")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("codes")
	return cmd
}

func loadDocument(path string) (document.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed document %s: %w", path, err)
	}
	return doc, nil
}
