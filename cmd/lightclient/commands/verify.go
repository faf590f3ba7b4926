package commands

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tm-lightclient/lightclient/config"
	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light"
	"github.com/tm-lightclient/lightclient/light/provider"
	httpprovider "github.com/tm-lightclient/lightclient/light/provider/http"
	"github.com/tm-lightclient/lightclient/supervisor"
	"github.com/tm-lightclient/lightclient/types"
)

func verifyCommand() *cobra.Command {
	var targetHeight int64

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the chain up to a target height against the configured primary and witnesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runVerify(cmd.Context(), cfg, targetHeight)
		},
	}
	cmd.Flags().Int64Var(&targetHeight, "height", 0, "target height to verify (0 = latest)")
	return cmd
}

func runVerify(ctx context.Context, cfg config.Config, targetHeight int64) error {
	logger := log.NewLogfmtLogger()

	opts := light.Options{
		TrustThreshold: types.TrustThreshold{
			Numerator:   cfg.TrustThreshold.Numerator,
			Denominator: cfg.TrustThreshold.Denominator,
		},
		TrustingPeriod: cfg.TrustingPeriod.Duration,
		ClockDrift:     cfg.ClockDrift.Duration,
	}

	primary := httpprovider.New(cfg.ChainID, cfg.Primary)
	primary.SetLogger(logger)

	var witnesses []provider.Provider
	for _, w := range cfg.Witnesses {
		wp := httpprovider.New(cfg.ChainID, w)
		wp.SetLogger(logger)
		witnesses = append(witnesses, wp)
	}

	sup := supervisor.New(cfg.ChainID, primary, witnesses, opts, logger)

	trustedHash, err := parseHash(cfg.TrustedHash)
	if err != nil {
		return fmt.Errorf("invalid trusted_hash in config: %w", err)
	}
	if err := sup.Bootstrap(ctx, cfg.TrustedHeight, trustedHash); err != nil {
		return fmt.Errorf("bootstrapping: %w", err)
	}

	var lb *types.LightBlock
	if targetHeight == 0 {
		lb, err = sup.VerifyToHighest(ctx)
	} else {
		lb, err = sup.VerifyToTarget(ctx, types.Height(targetHeight))
	}
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("verified height=%d hash=%s\n", lb.Height(), lb.Hash().String())
	return nil
}

func parseHash(s string) (types.Hash, error) {
	bz, err := hex.DecodeString(s)
	if err != nil {
		return types.EmptyHash(), err
	}
	return types.HashFromBytes(bz), nil
}
