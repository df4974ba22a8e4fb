package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/migrate"
	"storefront/internal/repository"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import products and orders from the JSON data files into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			wipe, _ := cmd.Flags().GetBool("clear")

			// Los archivos se leen sin copias de respaldo: la importación no los modifica
			files := repository.NewFileStores(cfg.Storage.DataDir, nil)
			mongoStores, closeStores, err := openMongoStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			products, err := migrate.Import(cmd.Context(), repository.ProductsCollection,
				files.Products, mongoStores.Products, wipe, migrate.PrepareProduct)
			if err != nil {
				return err
			}
			orders, err := migrate.Import(cmd.Context(), repository.OrdersCollection,
				files.Orders, mongoStores.Orders, wipe, migrate.PrepareOrder(time.Now))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "📊 IMPORT SUMMARY:")
			for _, r := range []*migrate.Result{products, orders} {
				fmt.Fprintf(out, "  %-9s read %d, imported %d, skipped %d, failed %d\n",
					r.Collection, r.Read, r.Imported, r.Skipped, r.Failed)
			}
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "Delete existing documents before importing")
	return cmd
}

func migrateImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-images",
		Short: "Fill the images array of products from their single image field",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			stores, closeStores, err := openStores(cmd.Context(), cfg, newBackupManager(cfg))
			if err != nil {
				return err
			}
			defer closeStores()

			res, err := migrate.MigrateImages(cmd.Context(), stores.Products)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated: %d  ⚠️ Placeholder: %d  ⏭️ Skipped: %d\n",
				res.Updated, res.Placeholder, res.Skipped)
			return nil
		},
	}
}
