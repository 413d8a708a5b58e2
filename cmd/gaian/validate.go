package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gaian-hq/gaian/pkg/biome"
	"gaian-hq/gaian/pkg/cli"
	"gaian-hq/gaian/pkg/config"
	"gaian-hq/gaian/pkg/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and biome rules",
	Long: `Validate the configuration file, the biome rules file it
references, and the buyer registry without starting the server.

All validation errors are collected and reported together.

Examples:
  # Validate the default config
  gaian validate

  # Validate a specific config
  gaian validate --config /etc/gaian/gaian.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ Configuration invalid (%d errors):\n", len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Printf("  - %s\n", fe.Error())
			}
			return cli.NewConfigError("", "validation failed")
		}
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)

	registry, err := biome.LoadRegistry(cfg.Rules.Path)
	if err != nil {
		fmt.Printf("✗ Biome rules invalid: %v\n", err)
		return cli.NewConfigError("rules.path", "validation failed")
	}
	fmt.Printf("✓ Biome rules valid: %s (%d biomes)\n", cfg.Rules.Path, len(registry.BiomeIDs()))

	var buyers *export.BuyerRegistry
	if cfg.Exports.BuyersPath != "" {
		buyers, err = export.LoadBuyerRegistry(cfg.Exports.BuyersPath)
	} else {
		buyers, err = export.NewBuyerRegistry(cfg.Exports.AllowedBuyers)
	}
	if err != nil {
		fmt.Printf("✗ Buyer registry invalid: %v\n", err)
		return cli.NewConfigError("exports", "validation failed")
	}
	fmt.Printf("✓ Buyer registry valid (%d buyers)\n", len(buyers.BuyerIDs()))

	return nil
}
