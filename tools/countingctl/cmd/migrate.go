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

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var pf parentFlags
	cmd := &cobra.Command{
		Use:   "migrate CONTRACT",
		Short: "Upgrade an instance to the current counting code, optionally attaching a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := flags.senderAddress()
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			parent, err := pf.parent()
			if err != nil {
				return err
			}
			msg, err := json.Marshal(counting.MigrateMsg{Parent: parent})
			if err != nil {
				return errors.Wrap(err, "failed to encode migrate message")
			}
			return withChain(flags, func(ctx context.Context, chain *host.Chain) error {
				res, err := chain.Migrate(ctx, sender, addr, CodeName, msg)
				if err != nil {
					return err
				}
				return printTx(cmd, flags, args[0], res)
			})
		},
	}
	pf.register(cmd)
	return cmd
}
