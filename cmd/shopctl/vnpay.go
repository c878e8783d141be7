package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
)

func vnpayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vnpay",
		Short: "Sign or verify VNPay query strings",
	}
	cmd.PersistentFlags().String("secret", os.Getenv("VNP_HASH_SECRET"), "merchant hash secret (defaults to VNP_HASH_SECRET)")
	cmd.PersistentFlags().String("tmn-code", os.Getenv("VNP_TMN_CODE"), "terminal code (defaults to VNP_TMN_CODE)")

	cmd.AddCommand(&cobra.Command{
		Use:   "sign [query]",
		Short: "Append vnp_SecureHash to a query string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				return errors.New("--secret or VNP_HASH_SECRET is required")
			}
			params, err := parseQuery(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s&%s=%s\n", vnpay.Canonicalize(params), vnpay.ParamSecureHash, vnpay.Sign(secret, params))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "verify [query]",
		Short: "Check the signature of a gateway callback query string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			tmnCode, _ := cmd.Flags().GetString("tmn-code")
			if secret == "" {
				return errors.New("--secret or VNP_HASH_SECRET is required")
			}
			params, err := parseQuery(args[0])
			if err != nil {
				return err
			}
			result, err := vnpay.New(vnpay.Config{TmnCode: tmnCode, HashSecret: secret}).VerifyCallback(params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: txnRef=%s amount=%d responseCode=%s\n", result.TxnRef, result.Amount, result.ResponseCode)
			return nil
		},
	})
	return cmd
}

// parseQuery accepts a bare query string or a full URL.
func parseQuery(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	params, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return params, nil
}
