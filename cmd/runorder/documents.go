package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/migrate"
	"github.com/example/running-order/internal/timecode"
)

var errDocumentHasIssues = errors.New("document has validation issues")

func newMigrateCmd() *cobra.Command {
	var (
		output  string
		inPlace bool
	)
	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a document of any version to the canonical shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPlace && output != "" {
				return errors.New("--in-place and --output are mutually exclusive")
			}
			doc, report, err := readDocument(args[0])
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			encoded = append(encoded, '\n')

			target := output
			if inPlace {
				target = args[0]
			}
			if target == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			if err := renameio.WriteFile(target, encoded, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			applied := "none"
			if len(report.Applied) > 0 {
				applied = strings.Join(report.Applied, ", ")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "migrated %s: v%d -> v%d (steps: %s)\n", target, report.FromVersion, report.ToVersion, applied)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the canonical document to this file")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "replace the input file atomically")
	return cmd
}

func newOrderCmd() *cobra.Command {
	var fanZone bool
	cmd := &cobra.Command{
		Use:   "order <file>",
		Short: "Print the grouped, time-ordered running order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if fanZone {
				return printFanZone(cmd.OutOrStdout(), application.RenderFanZone(doc))
			}
			return printRunningOrder(cmd.OutOrStdout(), application.RenderRunningOrder(doc))
		},
	}
	cmd.Flags().BoolVar(&fanZone, "fan-zone", false, "print the fan-zone schedule instead")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Report data-quality issues in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := readDocument(args[0])
			if err != nil {
				return err
			}
			report := application.Validate(doc)
			out := cmd.OutOrStdout()
			if report.Valid {
				fmt.Fprintln(out, "ok")
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "%s\t%s\t%s\n", issue.Code, issue.ItemID, issue.Message)
			}
			return errDocumentHasIssues
		},
	}
}

func newTimecodeCmd() *cobra.Command {
	var fanZone bool
	cmd := &cobra.Command{
		Use:   "timecode <expression>",
		Short: "Show how a time expression sorts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := timecode.Parse(args[0])
			if fanZone {
				code = timecode.ParseFanZone(args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "band=%s key=%d recognized=%t\n", code.Band(), code.Key(), code.Recognized())
			return nil
		},
	}
	cmd.Flags().BoolVar(&fanZone, "fan-zone", false, "use the fan-zone dialect")
	return cmd
}

func readDocument(path string) (document.Document, migrate.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, migrate.Report{}, err
	}
	doc, report, err := migrate.New(nil).MigrateJSON(raw)
	if err != nil {
		return document.Document{}, migrate.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, report, nil
}

func printRunningOrder(w io.Writer, view application.RunningOrderView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, group := range view.Groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s\n", group.Category.Name)
		for _, item := range group.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Time, item.Title, strings.Join(item.AudioSources, "+"))
		}
	}
	return tw.Flush()
}

func printFanZone(w io.Writer, view application.FanZoneView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range view.Items {
		marker := ""
		if !item.Recognized {
			marker = "?"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\n", item.Time, marker, item.Type, item.Title)
	}
	return tw.Flush()
}
