package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"freeresumetools/internal/bootstrap"
	"freeresumetools/internal/shared/config"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Create a donation checkout session and print its URL",
	RunE:  runCheckout,
}

var checkoutAmount float64

func init() {
	checkoutCmd.Flags().Float64Var(&checkoutAmount, "amount", 5, "Donation amount in major currency units (minimum 1)")
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	svc := bootstrap.BuildCheckout(config.Load())
	sess, err := svc.Create(context.Background(), &checkoutAmount)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sess)
}
