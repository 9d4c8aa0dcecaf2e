package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/nearby/internal/cli"
	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List venue categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}

			categories, err := gw.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cli.FormatTitle("Categories"))
			_, _ = fmt.Fprintln(out, cli.RenderCategories(categories))
			return nil
		},
	}
}

func venuesCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List the venues of a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}

			venues, err := gw.ListVenuesByCategory(cmd.Context(), categoryID)
			if err != nil {
				return fmt.Errorf("failed to list venues: %w", err)
			}

			origin := model.Coordinate{
				Latitude:  viper.GetFloat64("map.latitude"),
				Longitude: viper.GetFloat64("map.longitude"),
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cli.FormatTitle("Venues in "+categoryID))
			_, _ = fmt.Fprintln(out, cli.RenderVenues(venues, origin))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "category id")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func venueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "venue <id>",
		Short: "Show a venue's details and remaining coupons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}

			detail, err := gw.GetVenue(cmd.Context(), args[0])
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("venue %q not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to load venue: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderVenueDetail(detail))
			return nil
		},
	}
}
