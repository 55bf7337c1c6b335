package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/repository"
	"github.com/snehn77/Editor/internal/service"
)

func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect or discard batch drafts",
	}
	cmd.AddCommand(newDraftsShowCmd())
	cmd.AddCommand(newDraftsDiscardCmd())
	return cmd
}

func newDraftsShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <batchId>",
		Short: "Print the active change-set of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(envOptions{drafts: true})
			if err != nil {
				return err
			}
			defer e.Close()

			drafts := service.NewDraftService(repository.NewDraftRepository(e.drafts, e.logger), nil, e.logger)
			changes, err := drafts.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), changes)
			}
			renderChanges(cmd.OutOrStdout(), changes)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newDraftsDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <batchId>",
		Short: "Discard the active change-set of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(envOptions{drafts: true})
			if err != nil {
				return err
			}
			defer e.Close()

			drafts := service.NewDraftService(repository.NewDraftRepository(e.drafts, e.logger), nil, e.logger)
			if err := drafts.Discard(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "draft of %s discarded\n", args[0])
			return nil
		},
	}
}

func renderChanges(w io.Writer, changes []models.Change) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Row", "Process", "Layer", "Defect Type", "Modified Fields", "Timestamp"})
	for i, change := range changes {
		row := change.NewData
		if row == nil {
			row = change.OriginalData
		}
		var process, layer, defect string
		if row != nil {
			process, layer, defect = row.Process, row.Layer, row.DefectType
		}
		key := ""
		if id, ok := change.RowKey(); ok {
			key = fmt.Sprint(id)
		}
		t.AppendRow(table.Row{
			i + 1,
			change.ChangeType,
			key,
			process,
			layer,
			defect,
			strings.Join(change.ModifiedFields, ", "),
			change.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", len(changes)})
	t.Render()
}

func writeJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
