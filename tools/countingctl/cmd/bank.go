// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/host"
)

func newBankCmd(flags *globalFlags) *cobra.Command {
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Mint and inspect native coins",
	}
	bankCmd.AddCommand(&cobra.Command{
		Use:   "mint ADDRESS COINS",
		Short: "Mint coins like 100atom,5eth to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := coin.ParseCoins(args[1])
			if err != nil {
				return err
			}
			return withChain(flags, func(_ context.Context, chain *host.Chain) error {
				if err := chain.Mint(addr, amount); err != nil {
					return err
				}
				return printBalance(cmd, flags, chain, args[0])
			})
		},
	})
	bankCmd.AddCommand(&cobra.Command{
		Use:   "balance ADDRESS",
		Short: "Show every coin an address holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseAddress(args[0]); err != nil {
				return err
			}
			return withChain(flags, func(_ context.Context, chain *host.Chain) error {
				return printBalance(cmd, flags, chain, args[0])
			})
		},
	})
	return bankCmd
}

func printBalance(cmd *cobra.Command, flags *globalFlags, chain *host.Chain, s string) error {
	addr, err := parseAddress(s)
	if err != nil {
		return err
	}
	balance, err := chain.Balance(addr)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), flags.outputFormat, balanceView{Address: s, Balance: balance.String()})
}
