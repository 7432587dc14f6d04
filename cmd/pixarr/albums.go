package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List imported albums",
	RunE:  runAlbumsCmd,
}

func init() {
	rootCmd.AddCommand(albumsCmd)
}

func runAlbumsCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	albums, err := a.store.ListAlbums()
	if err != nil {
		return fmt.Errorf("listing albums: %w", err)
	}
	if len(albums) == 0 {
		fmt.Println("no albums imported yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tIMAGES\tCOVER")
	for _, al := range albums {
		cover := al.CoverPath
		if cover == "" {
			cover = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", al.ID, al.Title, al.ImageCount, cover)
	}
	return w.Flush()
}
