package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/nearby/internal/cli"
	"github.com/Veraticus/nearby/internal/common"
	"github.com/spf13/cobra"
)

func redeemCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem a coupon without the camera",
		Long: `Redeem a coupon using the payload of a venue's QR code. A redeemed coupon
cannot be reused, so you are asked to confirm first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			out := cmd.OutOrStdout()

			gw, err := newGateway()
			if err != nil {
				return err
			}

			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), out)
				ok, err := prompter.Confirm(cmd.Context(), "A redeemed coupon cannot be reused. Do you really want to redeem it?")
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(out, cli.FormatInfo("Nothing redeemed."))
					return nil
				}
			}

			coupon, err := gw.RedeemCoupon(cmd.Context(), code)
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no venue matches %q", code)
			}
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrRedemptionFailure, err)
			}

			_, _ = fmt.Fprintln(out, cli.FormatSuccess("Coupon redeemed"))
			_, _ = fmt.Fprintln(out, cli.RenderCoupon(code, coupon.Code))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")

	return cmd
}
