package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/database"
	"github.com/jchantrell/waddb/internal/utils"
	"github.com/jchantrell/waddb/internal/wad"
)

var infoDigest bool

var infoCmd = &cobra.Command{
	Use:   "info NAME",
	Short: "Show where a lump resolves to",
	Long: `Info resolves a lump name across the loaded archives and prints the
winning copy along with every other archive that carries the same name.
Names are matched case-insensitively and truncated to 8 characters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := utils.NormalizeLumpName(args[0])

		m, err := openManager()
		if err != nil {
			return err
		}
		defer m.Close()

		idx, err := m.Resolve(name)
		if err != nil {
			return err
		}

		lump, err := m.Lump(idx)
		if err != nil {
			return err
		}
		a, err := m.Archive(idx.Archive)
		if err != nil {
			return err
		}

		fmt.Printf("Lump:     %s\n", lump.Name)
		fmt.Printf("Archive:  %s (load order %d, policy %s)\n", a.Path(), idx.Archive, m.Policy())
		fmt.Printf("Index:    %d\n", idx.Lump)
		fmt.Printf("Position: %d\n", lump.Position)
		fmt.Printf("Size:     %s\n", utils.Bytes(int64(lump.Size)))
		if lump.IsMarker() {
			fmt.Println("Marker:   yes")
		}

		if infoDigest && !lump.IsMarker() {
			data, err := m.Data(idx)
			if err != nil {
				return fmt.Errorf("reading lump data: %w", err)
			}
			fmt.Printf("Digest:   %s\n", database.Digest(data))
		}

		for i := 0; i < m.Len(); i++ {
			if i == idx.Archive {
				continue
			}
			other, _ := m.Archive(i)
			if j, ok := other.Find(name); ok {
				fmt.Printf("Shadows:  %s index %d\n", other.Path(), j)
			}
		}

		return nil
	},
}

// resolveNames normalizes user supplied names, or returns every name that
// resolves in the manager when all is set
func resolveNames(m *wad.Manager, args []string, all bool) []string {
	if !all {
		names := make([]string, len(args))
		for i, arg := range args {
			names[i] = utils.NormalizeLumpName(arg)
		}
		return names
	}

	seen := make(map[string]bool)
	var names []string
	for i := 0; i < m.Len(); i++ {
		a, _ := m.Archive(i)
		for _, lump := range a.Lumps() {
			if !seen[lump.Name] {
				seen[lump.Name] = true
				names = append(names, lump.Name)
			}
		}
	}
	return names
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoDigest, "digest", false, "print the blake3 digest of the lump data")
}
