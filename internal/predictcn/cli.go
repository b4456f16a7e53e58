package predictcn

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/refgenome"
)

// Command is the "predictcn" subcommand.
var Command = &cli.Command{
	Name:      "predictcn",
	Usage:     "Estimate per-bin copy number from aligned reads",
	UsageText: "liquidbin predictcn [options] <sample-list> <contig-list> <reference.fasta>",
	ArgsUsage: "<sample-list> <contig-list> <reference.fasta>",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "block-size", Aliases: []string{"b"}, Value: 10000, Usage: "Bin size in bases"},
		&cli.IntFlag{Name: "mapq", Aliases: []string{"Q"}, Value: 0, Usage: "Minimum mapping quality"},
		&cli.IntFlag{Name: "qual", Aliases: []string{"q"}, Value: 0, Usage: "Minimum per-base quality"},
		&cli.IntFlag{Name: "min-template-len", Aliases: []string{"M"}, Value: 0, Usage: "Minimum |template length|, 0 disables"},
		&cli.IntFlag{Name: "max-template-len", Aliases: []string{"m"}, Value: 0, Usage: "Maximum |template length|, 0 disables"},
		&cli.BoolFlag{Name: "keep-duplicates", Aliases: []string{"k"}, Usage: "Count reads flagged as duplicates"},
		&cli.BoolFlag{Name: "ignore-duplicate-flag", Aliases: []string{"D"}, Usage: "Ignore the duplicate flag entirely"},
		&cli.StringFlag{Name: "prefix", Aliases: []string{"p"}, Value: "cov", Usage: "Output file prefix"},
		&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: ".", Usage: "Output root directory"},
		&cli.IntFlag{Name: "threads", Aliases: []string{"t"}, Usage: "Worker slots (T); default hardware parallelism"},
		&cli.IntFlag{Name: "hts-threads", Aliases: []string{"@"}, Usage: "Per-reader decompression helper threads; default hardware parallelism"},
		&cli.IntFlag{Name: "readers", Aliases: []string{"R"}, Usage: "Reader slots (R); default (T+3)/4"},
		&cli.StringFlag{Name: "loglevel", Aliases: []string{"l"}, Value: "info", Usage: "One of debug, info, warn, error"},
		&cli.StringFlag{Name: "exclude-bed", Aliases: []string{"E"}, Usage: "BED of reference positions to exclude from usable_bases"},
	},
	Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cmd.Args().Len() != 3 {
			cli.ShowSubcommandHelp(cmd)
			return nil, cli.Exit("Error: expected 3 arguments (sample-list, contig-list, reference.fasta)", 1)
		}
		for i := 0; i < 3; i++ {
			if _, err := os.Stat(cmd.Args().Get(i)); os.IsNotExist(err) {
				return nil, cli.Exit("Error: input file does not exist: "+cmd.Args().Get(i), 1)
			}
		}
		if cmd.Int("block-size") <= 0 {
			return nil, cli.Exit("Error: block-size must be positive", 1)
		}
		if bed := cmd.String("exclude-bed"); bed != "" {
			if _, err := os.Stat(bed); os.IsNotExist(err) {
				return nil, cli.Exit("Error: exclude-bed does not exist: "+bed, 1)
			}
		}
		return ctx, nil
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cmd.String("loglevel"))}))

		cfg := DefaultConfig()
		cfg.FastaPath = cmd.Args().Get(2)
		cfg.BlockSize = int(cmd.Int("block-size"))
		cfg.MapQThreshold = byte(cmd.Int("mapq"))
		cfg.QualThreshold = byte(cmd.Int("qual"))
		cfg.MinTemplateLen = int(cmd.Int("min-template-len"))
		cfg.MaxTemplateLen = int(cmd.Int("max-template-len"))
		cfg.KeepDuplicates = cmd.Bool("keep-duplicates")
		cfg.IgnoreDuplicateFlag = cmd.Bool("ignore-duplicate-flag")
		cfg.Prefix = cmd.String("prefix")
		cfg.OutDir = cmd.String("dir")
		if cmd.IsSet("hts-threads") {
			cfg.HTSThreads = int(cmd.Int("hts-threads"))
		}
		if cmd.IsSet("threads") {
			cfg.Threads = int(cmd.Int("threads"))
		}
		if cmd.IsSet("readers") {
			cfg.Readers = int(cmd.Int("readers"))
		} else {
			cfg.Readers = (cfg.Threads + 3) / 4
		}

		samples, err := inputs.ParsePredictSampleList(cmd.Args().Get(0))
		if err != nil {
			return err
		}
		contigs, err := inputs.ParseContigList(cmd.Args().Get(1))
		if err != nil {
			return err
		}
		if bed := cmd.String("exclude-bed"); bed != "" {
			mask, err := coverage.LoadMask(bed)
			if err != nil {
				return err
			}
			cfg.Mask = mask
		}

		layout, err := refgenome.Build(contigs, cfg.FastaPath, cfg.BlockSize, cfg.Readers, func() (refgenome.FastaReader, error) {
			return refgenome.OpenFasta(cfg.FastaPath)
		})
		if err != nil {
			return err
		}

		return Run(cfg, layout, samples, logger)
	},
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
