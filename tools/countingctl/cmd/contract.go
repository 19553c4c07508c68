// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract/counting"
	"github.com/iotexproject/iotex-counting/host"
)

type parentFlags struct {
	addr   string
	period uint64
	part   string
}

func (pf *parentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.addr, "parent", "", "address of the parent instance receiving donations")
	cmd.Flags().Uint64Var(&pf.period, "donating-period", 1, "number of donations between two forwards to the parent")
	cmd.Flags().StringVar(&pf.part, "part", "0", "fraction of the held balance forwarded to the parent")
}

func (pf *parentFlags) parent() (*counting.Parent, error) {
	return parseParent(pf.addr, pf.period, pf.part)
}

func newInstantiateCmd(flags *globalFlags) *cobra.Command {
	var (
		counter uint64
		minimal string
		funds   string
		label   string
		admin   string
		pf      parentFlags
	)
	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Create a counting contract instance owned by the sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := flags.senderAddress()
			if err != nil {
				return err
			}
			minimalDonation, err := coin.ParseCoin(minimal)
			if err != nil {
				return err
			}
			attached, err := coin.ParseCoins(funds)
			if err != nil {
				return err
			}
			parent, err := pf.parent()
			if err != nil {
				return err
			}
			adminAddr := sender
			if admin != "" {
				if adminAddr, err = parseAddress(admin); err != nil {
					return err
				}
			}
			msg, err := json.Marshal(counting.InstantiateMsg{
				Counter:         counter,
				MinimalDonation: minimalDonation,
				Parent:          parent,
			})
			if err != nil {
				return errors.Wrap(err, "failed to encode instantiate message")
			}
			return withChain(flags, func(ctx context.Context, chain *host.Chain) error {
				addr, res, err := chain.Instantiate(ctx, CodeName, sender, msg, attached, label, adminAddr)
				if err != nil {
					return err
				}
				return printTx(cmd, flags, addr.String(), res)
			})
		},
	}
	cmd.Flags().Uint64Var(&counter, "counter", 0, "initial counter")
	cmd.Flags().StringVar(&minimal, "minimal-donation", "", "smallest donation counted, like 10atom")
	cmd.Flags().StringVar(&funds, "funds", "", "coins attached to the call")
	cmd.Flags().StringVar(&label, "label", "", "label of the instance")
	cmd.Flags().StringVar(&admin, "admin", "", "address allowed to migrate the instance, the sender by default")
	pf.register(cmd)
	_ = cmd.MarkFlagRequired("minimal-donation")
	return cmd
}

func newIncrementCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "increment CONTRACT VALUE",
		Short: "Add VALUE to the counter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid value %s", args[1])
			}
			return runExecute(cmd, flags, args[0], counting.ExecMsg{Increment: &counting.IncrementMsg{Value: value}}, nil)
		},
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset CONTRACT [COUNTER]",
		Short: "Set the counter, zero when COUNTER is omitted. Only the owner may reset.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var counter uint64
			if len(args) == 2 {
				var err error
				if counter, err = strconv.ParseUint(args[1], 10, 64); err != nil {
					return errors.Wrapf(err, "invalid counter %s", args[1])
				}
			}
			return runExecute(cmd, flags, args[0], counting.ExecMsg{Reset: &counting.ResetMsg{Value: counter}}, nil)
		},
	}
}

func newDonateCmd(flags *globalFlags) *cobra.Command {
	var funds string
	cmd := &cobra.Command{
		Use:   "donate CONTRACT",
		Short: "Donate the attached funds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attached, err := coin.ParseCoins(funds)
			if err != nil {
				return err
			}
			return runExecute(cmd, flags, args[0], counting.ExecMsg{Donate: &counting.DonateMsg{}}, attached)
		},
	}
	cmd.Flags().StringVar(&funds, "funds", "", "coins attached to the donation, like 10atom")
	return cmd
}

func newWithdrawCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw CONTRACT",
		Short: "Send every coin held by the instance to its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, flags, args[0], counting.ExecMsg{Withdraw: &counting.WithdrawMsg{}}, nil)
		},
	}
}

func newWithdrawToCmd(flags *globalFlags) *cobra.Command {
	var caps string
	cmd := &cobra.Command{
		Use:   "withdraw-to CONTRACT RECEIVER",
		Short: "Send the coins held by the instance to RECEIVER, capped by --caps when set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			funds, err := coin.ParseCoins(caps)
			if err != nil {
				return err
			}
			return runExecute(cmd, flags, args[0], counting.ExecMsg{
				WithdrawTo: &counting.WithdrawToMsg{Receiver: args[1], Funds: funds},
			}, nil)
		},
	}
	cmd.Flags().StringVar(&caps, "caps", "", "largest amount sent per denomination, like 10atom,5eth")
	return cmd
}

func runExecute(cmd *cobra.Command, flags *globalFlags, contract string, exec counting.ExecMsg, funds coin.Coins) error {
	sender, err := flags.senderAddress()
	if err != nil {
		return err
	}
	addr, err := parseAddress(contract)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(exec)
	if err != nil {
		return errors.Wrap(err, "failed to encode execute message")
	}
	return withChain(flags, func(ctx context.Context, chain *host.Chain) error {
		res, err := chain.Execute(ctx, sender, addr, msg, funds)
		if err != nil {
			return err
		}
		return printTx(cmd, flags, "", res)
	})
}

func printTx(cmd *cobra.Command, flags *globalFlags, contract string, res *host.Result) error {
	view, err := newResultView(contract, res)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), flags.outputFormat, view)
}
