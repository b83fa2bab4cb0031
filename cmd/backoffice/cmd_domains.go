package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/domainflip/backoffice/internal/inventory"
)

func newDomainsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Manage the registrar domain inventory",
	}

	cmd.AddCommand(newDomainsDownloadCmd(configPath))
	cmd.AddCommand(newDomainsExportCmd(configPath))
	cmd.AddCommand(newDomainsStatsCmd(configPath))

	return cmd
}

func newDomainsDownloadCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "download [registrar]",
		Short: "Download active domains from a registrar (or all configured registrars)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := a.inventoryService()

			if len(args) == 0 {
				all, err := svc.SyncAll(cmd.Context(), dryRun)
				for _, stats := range all {
					printSyncStats(cmd, stats)
				}
				return err
			}

			stats, err := svc.Sync(cmd.Context(), args[0], dryRun)
			if err != nil {
				return err
			}
			printSyncStats(cmd, *stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch domain lists without writing to the database")

	return cmd
}

func printSyncStats(cmd *cobra.Command, stats inventory.SyncStats) {
	cmd.Printf("%s: %d domains (%d new, %d updated, %d skipped)\n",
		stats.Registrar, stats.Total, stats.New, stats.Updated, stats.Skipped)
}

func newDomainsExportCmd(configPath *string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the domain inventory as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			n, err := a.inventoryService().ExportCSV(cmd.Context(), out)
			if err != nil {
				return err
			}
			if outPath != "" {
				cmd.Printf("exported %d domains to %s\n", n, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write CSV to a file instead of stdout")

	return cmd
}

func newDomainsStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inventory counts per registrar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := a.inventoryService()
			counts, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}

			total := 0
			for _, registrar := range svc.Registrars() {
				if n, ok := counts[registrar]; ok {
					cmd.Printf("%-12s %d\n", registrar, n)
					total += n
					delete(counts, registrar)
				}
			}
			for registrar, n := range counts {
				cmd.Printf("%-12s %d\n", registrar, n)
				total += n
			}
			cmd.Printf("%-12s %d\n", "total", total)
			return nil
		},
	}
}
