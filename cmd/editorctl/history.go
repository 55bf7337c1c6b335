package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/repository"
	"github.com/snehn77/Editor/internal/service"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse submission history",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		format   string
		process  string
		status   string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(envOptions{postgres: true})
			if err != nil {
				return err
			}
			defer e.Close()

			svc := service.NewHistoryService(repository.NewHistoryRepository(e.pg), e.logger)
			records, pagination, err := svc.List(context.Background(), models.HistoryFilter{
				Process:  process,
				Status:   models.ApprovalStatus(status),
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			renderHistory(cmd.OutOrStdout(), records, pagination)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().StringVar(&process, "process", "", "Only submissions of this process")
	cmd.Flags().StringVar(&status, "status", "", "Approval status: Pending, Approved or Rejected")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <changeId>",
		Short: "Show one submission and its field-level details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(envOptions{postgres: true})
			if err != nil {
				return err
			}
			defer e.Close()

			svc := service.NewHistoryService(repository.NewHistoryRepository(e.pg), e.logger)
			entry, err := svc.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), entry)
			}
			renderHistoryEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func renderHistory(w io.Writer, records []models.HistoryRecord, pagination *models.Pagination) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Change ID", "Batch", "Submitted", "User", "Process", "Type", "Status"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ChangeID,
			r.BatchID,
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Username,
			r.Process,
			r.ChangeType,
			r.ApprovalStatus,
		})
	}
	if pagination != nil {
		t.AppendFooter(table.Row{"", "", "", "", "", "Total", pagination.TotalCount})
	}
	t.Render()
}

func renderHistoryEntry(w io.Writer, entry *service.HistoryEntry) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.AppendRows([]table.Row{
		{"Change ID", entry.ChangeID},
		{"Batch", entry.BatchID},
		{"Submitted", entry.Timestamp.Format("2006-01-02 15:04:05")},
		{"User", entry.Username},
		{"Process", entry.Process},
		{"Status", entry.ApprovalStatus},
		{"Workbook", optional(entry.ExcelFilePath)},
		{"Document", optional(entry.DocumentURL)},
		{"Notes", optional(entry.Notes)},
	})
	summary.Render()

	details := table.NewWriter()
	details.SetOutputMirror(w)
	details.SetStyle(table.StyleLight)
	details.AppendHeader(table.Row{"Type", "Row", "Layer", "Defect Type", "Field", "Old", "New"})
	for _, d := range entry.Details {
		row := ""
		if d.RowID != nil {
			row = fmt.Sprint(*d.RowID)
		}
		details.AppendRow(table.Row{d.ChangeType, row, d.Layer, d.DefectType, optional(d.FieldName), optional(d.OldValue), optional(d.NewValue)})
	}
	details.Render()
}

func optional(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}
