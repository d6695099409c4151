package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/utils"
)

var catCmd = &cobra.Command{
	Use:   "cat NAME",
	Short: "Write the raw bytes of a lump to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openManager()
		if err != nil {
			return err
		}
		defer m.Close()

		data, err := fs.ReadFile(m.FS(), utils.NormalizeLumpName(args[0]))
		if err != nil {
			return err
		}

		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing lump: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
