package main

import (
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/tui"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse nearby venues on the map",
		Long: `Open the interactive venue browser. Pick a category, open a venue and
press s to scan its QR code and redeem a coupon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}
			sc, err := newScanner()
			if err != nil {
				return err
			}

			center := model.Coordinate{
				Latitude:  viper.GetFloat64("map.latitude"),
				Longitude: viper.GetFloat64("map.longitude"),
			}

			return tui.Run(cmd.Context(),
				tui.WithGateway(gw),
				tui.WithScanner(sc),
				tui.WithTheme(themes.GetTheme(viper.GetString("tui.theme"))),
				tui.WithCamera(center, viper.GetFloat64("map.zoom")),
				tui.WithHandoffDelay(viper.GetDuration("redeem.handoff_delay")),
			)
		},
	}
}
