package regiontest

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

// Command is the "regiontest" subcommand.
var Command = &cli.Command{
	Name:      "regiontest",
	Usage:     "Test regions for copy-number deviation against a control distribution",
	UsageText: "liquidbin regiontest [options] <sample-list>",
	ArgsUsage: "<sample-list>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "input-prefix", Aliases: []string{"P"}, Value: "cov", Usage: "PredictCN output file prefix"},
		&cli.StringFlag{Name: "input-dir", Aliases: []string{"D"}, Value: ".", Usage: "PredictCN output root directory"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "Output path, - for stdout"},
		&cli.StringFlag{Name: "region-list", Aliases: []string{"r"}, Usage: "Region list TSV (required)"},
		&cli.StringFlag{Name: "loglevel", Aliases: []string{"l"}, Value: "info", Usage: "One of debug, info, warn, error"},
		&cli.StringFlag{Name: "blacklist", Usage: "BED of regions whose bins are excluded from controls and tests"},
	},
	Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cmd.Args().Len() != 1 {
			cli.ShowSubcommandHelp(cmd)
			return nil, cli.Exit("Error: expected 1 argument (sample-list)", 1)
		}
		if _, err := os.Stat(cmd.Args().Get(0)); os.IsNotExist(err) {
			return nil, cli.Exit("Error: sample list does not exist", 1)
		}
		if cmd.String("region-list") == "" {
			return nil, cli.Exit("Error: --region-list is required", 1)
		}
		if _, err := os.Stat(cmd.String("region-list")); os.IsNotExist(err) {
			return nil, cli.Exit("Error: region list does not exist", 1)
		}
		if bl := cmd.String("blacklist"); bl != "" {
			if _, err := os.Stat(bl); os.IsNotExist(err) {
				return nil, cli.Exit("Error: blacklist does not exist: "+bl, 1)
			}
		}
		return ctx, nil
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		samples, err := inputs.ParseRegionSampleList(cmd.Args().Get(0))
		if err != nil {
			return err
		}
		regions, err := inputs.ParseRegionList(cmd.String("region-list"))
		if err != nil {
			return err
		}

		cfg := Config{InputDir: cmd.String("input-dir"), InputPrefix: cmd.String("input-prefix")}
		if bl := cmd.String("blacklist"); bl != "" {
			mask, err := coverage.LoadMask(bl)
			if err != nil {
				return err
			}
			cfg.Blacklist = mask
		}

		out := os.Stdout
		if cmd.String("output") != "-" {
			f, err := os.Create(cmd.String("output"))
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return Run(cfg, samples, regions, out)
	},
}
