// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"context"

	"go.uber.org/zap"

	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

// Migrate upgrades the state of an instance to the current layout. Each released version has its own transform,
// an instance at the current version is left untouched. The caller is the migration authority of the host, it
// becomes the owner of 0.1.0 instances that never recorded one.
func (c *Counting) Migrate(ctx context.Context, sm contract.StateManager, msg MigrateMsg) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	cv, err := c.loadContractVersion(sm)
	if err != nil {
		return nil, err
	}
	if cv.Contract != c.name {
		return nil, &InvalidContractNameError{Expected: c.name}
	}
	resp := contract.NewResponse().
		AddAttribute("action", "migrate").
		AddAttribute("from_version", cv.Version).
		AddAttribute("to_version", c.version)
	if cv.Version == c.version {
		log.L().Debug("Counting contract is up to date", zap.String("version", cv.Version))
		return resp, nil
	}
	load, ok := _legacyLoaders[cv.Version]
	if !ok {
		return nil, &InvalidMigrationVersionError{Version: cv.Version}
	}
	var pd *ParentDonation
	if msg.Parent != nil {
		if pd, err = msg.Parent.toParentDonation(ec.Contract); err != nil {
			return nil, err
		}
	}
	legacy, err := load(c, sm)
	if err != nil {
		return nil, err
	}
	s := legacy.toState(ec.Caller)
	if pd != nil {
		period := pd.DonatingParentPeriod
		s.DonatingParent = &period
	}

	if err := legacy.cleanup(c, sm); err != nil {
		return nil, err
	}
	if err := c.putState(sm, _stateKey, &s); err != nil {
		return nil, err
	}
	if pd != nil {
		if err := c.putState(sm, _parentDonationKey, pd); err != nil {
			return nil, err
		}
	}
	if err := c.setContractVersion(sm); err != nil {
		return nil, err
	}
	log.L().Info("Migrated counting contract",
		zap.String("from", cv.Version),
		zap.String("to", c.version),
		zap.String("owner", s.Owner.String()),
		zap.Uint64("counter", s.Counter),
		zap.Bool("parent", pd != nil))
	return resp, nil
}
