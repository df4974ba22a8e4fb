package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/backup"
	"storefront/internal/config"
	"storefront/internal/repository"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the startup recovery scan over the JSON data files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			reports, err := newBackupManager(cfg).RecoverAll(repository.DataFiles(cfg.Storage.DataDir))
			printReports(cmd, reports)
			return err
		},
	}
}

func printReports(cmd *cobra.Command, reports []*backup.Report) {
	out := cmd.OutOrStdout()
	for _, r := range reports {
		fmt.Fprintf(out, "%-16s %-9s %5d records", r.File, r.Action, r.Records)
		if r.Snapshot != "" {
			fmt.Fprintf(out, "  from %s", r.Snapshot)
		}
		if r.Reason != "" {
			fmt.Fprintf(out, "  (%s)", r.Reason)
		}
		fmt.Fprintln(out)
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy all data files into a timestamped backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			stamp, err := newBackupManager(cfg).BackupAll(repository.DataFiles(cfg.Storage.DataDir))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🎉 Backup complete:", stamp)
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [timestamp]",
		Short: "Restore data files from a backup; lists backups when no timestamp is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			manager := newBackupManager(cfg)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				stamps, err := manager.ListBackups()
				if err != nil {
					return err
				}
				if len(stamps) == 0 {
					fmt.Fprintln(out, "❌ No backups found in", manager.Dir())
					return nil
				}
				fmt.Fprintln(out, "📋 Available backups:")
				for _, s := range stamps {
					fmt.Fprintln(out, "  -", s)
				}
				fmt.Fprintln(out, "\nUsage: storefront restore <timestamp>")
				return nil
			}

			restored, err := manager.Restore(args[0], repository.DataFiles(cfg.Storage.DataDir))
			if err != nil {
				return err
			}
			for _, name := range restored {
				fmt.Fprintln(out, "✅ Restored:", name)
			}
			fmt.Fprintln(out, "🎉 Restore complete!")
			return nil
		},
	}
}

func recoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Overwrite a collection file with its newest valid snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			collection, _ := cmd.Flags().GetString("collection")
			report, err := newBackupManager(cfg).RestoreLatest(repository.DataFile(cfg.Storage.DataDir, collection))
			if err != nil {
				return err
			}
			printReports(cmd, []*backup.Report{report})
			return nil
		},
	}
	cmd.Flags().String("collection", repository.OrdersCollection, "Collection to recover")
	return cmd
}
