// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-counting/contract/counting"
	"github.com/iotexproject/iotex-counting/host"
)

func newQueryCmd(flags *globalFlags) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Read the state of an instance",
	}
	queryCmd.AddCommand(newQuerySubCmd(flags, "value CONTRACT", "Show the counter", counting.QueryMsg{Value: &counting.ValueQuery{}}))
	queryCmd.AddCommand(newQuerySubCmd(flags, "state CONTRACT", "Show the whole state record", counting.QueryMsg{State: &counting.StateQuery{}}))
	queryCmd.AddCommand(newQuerySubCmd(flags, "parent-donation CONTRACT", "Show the parent configuration", counting.QueryMsg{
		ParentDonation: &counting.ParentDonationQuery{},
	}))
	return queryCmd
}

func newQuerySubCmd(flags *globalFlags, use, short string, query counting.QueryMsg) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			msg, err := json.Marshal(query)
			if err != nil {
				return errors.Wrap(err, "failed to encode query")
			}
			return withChain(flags, func(ctx context.Context, chain *host.Chain) error {
				data, err := chain.Query(ctx, addr, msg)
				if err != nil {
					return err
				}
				v, err := decodeData(data)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), flags.outputFormat, v)
			})
		},
	}
}
