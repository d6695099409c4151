package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/database"
	"github.com/jchantrell/waddb/internal/utils"
)

var (
	catalogForce    bool
	catalogNoDigest bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Record the loaded archives and their lumps in a SQLite catalog",
	Long: `Catalog writes every archive and directory entry of the loaded archives
into a SQLite database, marking which copy of each lump name is active under
the override policy and which are shadowed. Lump data is hashed with blake3
so identical overrides can be spotted with the overrides view.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		start := time.Now()

		m, err := openManager()
		if err != nil {
			return err
		}
		defer m.Close()

		if !cfg.Cache().FileExists(cfg.Database) {
			slog.Info("Creating catalog database", "path", cfg.Database)
		}

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		defer db.Close()

		hasCatalog, err := db.HasCatalog(ctx)
		if err != nil {
			return fmt.Errorf("checking database tables: %w", err)
		}
		if hasCatalog {
			if !catalogForce {
				return fmt.Errorf("database %s already contains a catalog, use --force to rebuild it", cfg.Database)
			}
			slog.Info("Dropping existing catalog", "database", db.Path())
			if err := database.NewDDLManager(db).DropSchemas(ctx); err != nil {
				return err
			}
		}

		total := 0
		for i := 0; i < m.Len(); i++ {
			a, _ := m.Archive(i)
			total += a.Len()
		}

		progress := utils.NewProgress(total, "catalog", !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))
		stats, err := database.BuildCatalog(ctx, db, m, &database.CatalogOptions{
			Digest:   !catalogNoDigest,
			Progress: progress.Callback(),
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("building catalog: %w", err)
		}

		fmt.Printf("Database: %s\n", db.Path())
		fmt.Printf("Archives: %d\n", stats.Archives)
		fmt.Printf("Lumps: %s (%s)\n", utils.Number(int64(stats.Lumps)), utils.Bytes(stats.Bytes))
		fmt.Printf("Active: %s\n", utils.Number(int64(stats.Active)))
		fmt.Printf("Shadowed: %s\n", utils.Number(int64(stats.Shadowed)))
		fmt.Printf("Markers: %s\n", utils.Number(int64(stats.Markers)))
		fmt.Printf("Total duration: %s\n", utils.Duration(time.Since(start)))
		fmt.Println("Try running: waddb query --overrides")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogForce, "force", false, "rebuild the catalog if the database already has one")
	catalogCmd.Flags().BoolVar(&catalogNoDigest, "no-digest", false, "skip hashing lump data")
}
