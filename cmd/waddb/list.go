package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/utils"
	"github.com/jchantrell/waddb/internal/wad"
)

var (
	listArchive    int
	listActiveOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the lumps of the loaded archives",
	Long: `List prints every directory entry of the loaded archives in load order,
with its position, size and whether it is the copy that name lookups
resolve to under the current override policy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openManager()
		if err != nil {
			return err
		}
		defer m.Close()

		if listArchive >= m.Len() {
			return fmt.Errorf("archive %d not loaded, %d archives available", listArchive, m.Len())
		}

		for i := 0; i < m.Len(); i++ {
			if listArchive >= 0 && i != listArchive {
				continue
			}

			a, err := m.Archive(i)
			if err != nil {
				return err
			}
			header := a.Header()

			fmt.Printf("%s (%s, %d lumps, directory at %d)\n", a.Path(), header.Type(), a.Len(), header.DirectoryOffset)
			fmt.Printf("%-6s %-8s %-10s %-10s %s\n", "Index", "Name", "Position", "Size", "Status")
			fmt.Println(strings.Repeat("-", 50))

			for j, lump := range a.Lumps() {
				status := lumpStatus(m, wad.LumpIndex{Archive: i, Lump: int32(j)}, lump)
				if listActiveOnly && status == "shadowed" {
					continue
				}
				fmt.Printf("%-6d %-8s %-10d %-10s %s\n", j, lump.Name, lump.Position, utils.Bytes(int64(lump.Size)), status)
			}
			fmt.Println()
		}

		return nil
	},
}

// lumpStatus describes how a directory entry relates to name resolution
func lumpStatus(m *wad.Manager, idx wad.LumpIndex, lump wad.Lump) string {
	winner, err := m.Resolve(lump.Name)
	switch {
	case err != nil:
		return "unresolved"
	case winner != idx:
		return "shadowed"
	case lump.IsMarker():
		return "marker"
	default:
		return "active"
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listArchive, "archive", -1, "only list the archive at this load-order position")
	listCmd.Flags().BoolVar(&listActiveOnly, "active", false, "hide lumps shadowed by another archive")
}
