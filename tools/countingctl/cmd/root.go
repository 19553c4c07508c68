// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/config"
	"github.com/iotexproject/iotex-counting/contract/counting"
	"github.com/iotexproject/iotex-counting/db"
	"github.com/iotexproject/iotex-counting/host"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

const (
	// CodeName is the name the counting contract is registered under
	CodeName = "counting"

	_formatJSON = "json"
	_formatYAML = "yaml"
)

type globalFlags struct {
	configPath   string
	outputFormat string
	sender       string
}

// NewCountingCtl creates the root command
func NewCountingCtl() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "countingctl",
		Short:         "Command-line interface driving counting contracts on a local chain",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch flags.outputFormat {
			case _formatJSON, _formatYAML:
				return nil
			default:
				return errors.Errorf("unsupported output format %s", flags.outputFormat)
			}
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path of the config file")
	root.PersistentFlags().StringVarP(&flags.outputFormat, "output-format", "o", _formatYAML, "output format, json or yaml")
	root.PersistentFlags().StringVar(&flags.sender, "sender", "", "address of the identity sending the call")

	root.AddCommand(newBankCmd(flags))
	root.AddCommand(newInstantiateCmd(flags))
	root.AddCommand(newIncrementCmd(flags))
	root.AddCommand(newResetCmd(flags))
	root.AddCommand(newDonateCmd(flags))
	root.AddCommand(newWithdrawCmd(flags))
	root.AddCommand(newWithdrawToCmd(flags))
	root.AddCommand(newQueryCmd(flags))
	root.AddCommand(newMigrateCmd(flags))
	return root
}

// withChain loads the config, starts a chain on the configured store and runs f against it
func withChain(flags *globalFlags, f func(context.Context, *host.Chain) error) error {
	var paths []string
	if flags.configPath != "" {
		paths = append(paths, flags.configPath)
	}
	cfg, err := config.New(paths)
	if err != nil {
		return err
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return errors.Wrap(err, "failed to init loggers")
	}
	kv, err := db.CreateKVStore(cfg.DB, cfg.DB.DbPath)
	if err != nil {
		return err
	}
	chain, err := host.NewChain(cfg.Chain, kv, host.WithCode(CodeName, counting.NewHandler()))
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := chain.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start chain")
	}
	err = f(ctx, chain)
	if stopErr := chain.Stop(ctx); stopErr != nil && err == nil {
		err = errors.Wrap(stopErr, "failed to stop chain")
	}
	return err
}

func (flags *globalFlags) senderAddress() (address.Address, error) {
	if flags.sender == "" {
		return nil, errors.New("--sender is required")
	}
	return parseAddress(flags.sender)
}

func parseAddress(s string) (address.Address, error) {
	addr, err := address.FromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %s", s)
	}
	return addr, nil
}

func parseParent(addr string, period uint64, part string) (*counting.Parent, error) {
	if addr == "" {
		return nil, nil
	}
	p, err := coin.NewPart(part)
	if err != nil {
		return nil, err
	}
	return &counting.Parent{Addr: addr, DonatingPeriod: period, Part: p}, nil
}

func printResult(w io.Writer, format string, v interface{}) error {
	var (
		out []byte
		err error
	)
	switch format {
	case _formatJSON:
		out, err = json.MarshalIndent(v, "", "  ")
	default:
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "failed to format output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
