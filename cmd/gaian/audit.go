package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gaian-hq/gaian/pkg/cli"
	"gaian-hq/gaian/pkg/config"
	"gaian-hq/gaian/pkg/export/audit"
	"gaian-hq/gaian/pkg/export/audit/retention"
)

var auditFlags struct {
	buyerID string
	biomeID string
	status  string
	limit   int
	offset  int
	format  string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the export audit archive",
	Long:  `Query and maintain the durable audit archive of export decisions.`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived audit entries",
	Long: `List archived audit entries, newest last, with optional filters.

Examples:
  # List everything
  gaian audit list

  # List rejections for one buyer as JSON
  gaian audit list --buyer acme-labs --status rejected --format json`,
	RunE: listAuditEntries,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune archived entries past the retention window",
	Long: `Remove archived audit entries older than the configured retention
window. Only the durable archive is pruned; the in-process log of a
running server is never touched.`,
	RunE: pruneAuditEntries,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditListCmd.Flags().StringVar(&auditFlags.buyerID, "buyer", "", "filter by buyer id")
	auditListCmd.Flags().StringVar(&auditFlags.biomeID, "biome", "", "filter by biome id")
	auditListCmd.Flags().StringVar(&auditFlags.status, "status", "", "filter by status")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "maximum entries to return")
	auditListCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "entries to skip")
	auditListCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
}

func listAuditEntries(cmd *cobra.Command, args []string) error {
	archive, err := openAuditArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	entries, err := archive.List(context.Background(), &audit.Query{
		BuyerID: auditFlags.buyerID,
		BiomeID: auditFlags.biomeID,
		Status:  auditFlags.status,
		Limit:   auditFlags.limit,
		Offset:  auditFlags.offset,
	})
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}

	if auditFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No audit entries found")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  buyer=%s biome=%s records=%d status=%s\n",
			e.AuditID, e.Timestamp.Format(time.RFC3339),
			e.BuyerID, e.BiomeID, e.RecordCount, e.Status)
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}

func pruneAuditEntries(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	archive, err := newAuditArchive(&cfg.Exports.Audit)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer archive.Close()

	pruner := retention.NewPruner(archive, &retention.Config{
		RetentionDays: cfg.Exports.Audit.RetentionDays,
	})
	removed, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	fmt.Printf("✓ Pruned %d entries older than %d days\n", removed, cfg.Exports.Audit.RetentionDays)
	return nil
}

func openAuditArchive() (audit.Storage, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	archive, err := newAuditArchive(&cfg.Exports.Audit)
	if err != nil {
		return nil, cli.NewCommandError("audit", err)
	}
	return archive, nil
}
