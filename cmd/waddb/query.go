package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/database"
)

const overridesQuery = `SELECT name, winner, winner_index, shadowed, shadowed_index, identical
FROM overrides ORDER BY name, shadowed`

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Query the lump catalog directly from command line",
	Long: `Query allows you to execute SQL queries against the lump catalog written
by the catalog command, list its tables, or show which lumps override others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		showOverrides, err := cmd.Flags().GetBool("overrides")
		if err != nil {
			return fmt.Errorf("failed to get overrides flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list-tables", listTables,
			"overrides", showOverrides)

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		hasCatalog, err := db.HasCatalog(ctx)
		if err != nil {
			return err
		}
		if !hasCatalog {
			return fmt.Errorf("database %s has no catalog, run waddb catalog first", cfg.Database)
		}

		switch {
		case listTables:
			return printQuery(ctx, db, `
				SELECT name, type FROM sqlite_master
				WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
				ORDER BY name`)
		case showOverrides:
			return printQuery(ctx, db, overridesQuery)
		case len(args) > 0:
			slog.Debug("Executing SQL query", "query", args[0])
			return printQuery(ctx, db, args[0])
		}

		return fmt.Errorf("no query provided, use --tables to list tables or --overrides to show shadowed lumps")
	},
}

// printQuery runs query and writes the result as tab separated columns
func printQuery(ctx context.Context, db *database.Database, query string) error {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Println(strings.Join(columns, "\t"))
	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Println(strings.Join(separators, "\t"))

	for rows.Next() {
		fields, err := scanRow(rows, len(columns))
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(fields, "\t"))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	return nil
}

func scanRow(rows *sql.Rows, n int) ([]string, error) {
	values := make([]interface{}, n)
	valuePtrs := make([]interface{}, n)
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	fields := make([]string, n)
	for i, val := range values {
		switch v := val.(type) {
		case nil:
			fields[i] = "NULL"
		case []byte:
			fields[i] = string(v)
		default:
			fields[i] = fmt.Sprint(v)
		}
	}
	return fields, nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("tables", false, "List catalog tables and views")
	queryCmd.Flags().Bool("overrides", false, "Show lumps shadowed by a copy in another archive")
}
