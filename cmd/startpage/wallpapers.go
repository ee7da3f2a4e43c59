package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/utils"
	"github.com/MrSnakeDoc/startpage/internal/wallpaper"
)

var (
	wallpapersPack     bool
	wallpapersPrefix   string
	wallpapersLimit    int
	wallpapersMaxBytes int64
)

var wallpapersCmd = &cobra.Command{
	Use:   "wallpapers",
	Short: "Manage the wallpaper rotation",
}

var wallpapersSyncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Replace the wallpaper list with the images in dir",
	Long: `Replace settings.wallpaperList with the images found in dir. By default the
list holds server paths under --prefix; with --pack the images are inlined as
data URIs so the document works without this server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		var list []string
		if wallpapersPack {
			packed, err := wallpaper.Pack(dir, wallpapersLimit, wallpapersMaxBytes)
			if err != nil {
				return err
			}
			for _, name := range packed.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: larger than %d bytes\n", name, wallpapersMaxBytes)
			}
			list = packed.DataURIs
		} else {
			paths, err := wallpaper.List(dir, wallpapersPrefix)
			if err != nil {
				return err
			}
			list = paths
		}

		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		_, err = core.Dashboard.Apply(cmd.Context(), func(doc domain.DataSchema) (domain.DataSchema, error) {
			settings := doc.Settings
			settings.WallpaperList = list
			return domain.UpdateSettings(doc, settings)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wallpaper list set to %d images\n", len(list))
		return nil
	},
}

func init() {
	wallpapersSyncCmd.Flags().BoolVar(&wallpapersPack, "pack", false, "inline images as data URIs")
	wallpapersSyncCmd.Flags().StringVar(&wallpapersPrefix, "prefix", "wallpapers", "URL prefix the server mounts the directory under")
	wallpapersSyncCmd.Flags().IntVar(&wallpapersLimit, "limit", 10, "maximum number of packed images, 0 for all")
	wallpapersSyncCmd.Flags().Int64Var(&wallpapersMaxBytes, "max-bytes", 2<<20, "skip packed images larger than this")
	wallpapersCmd.AddCommand(wallpapersSyncCmd)
}
