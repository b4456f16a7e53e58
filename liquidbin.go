package main

import (
	"context"
	"net/mail"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/docs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/predictcn"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/regiontest"
)

func main() {
	cmd := &cli.Command{
		Name:    "liquidbin",
		Version: "1.0.0",
		Authors: []any{
			&mail.Address{
				Name:    "CMGG ICT Team",
				Address: "ict.cmgg@uzgent.be",
			},
		},
		Copyright: "Copyright (c) " + time.Now().Format("2006") + " Center for Medical Genetics Ghent, Ghent University Hospital",
		Usage:     "liquid-biopsy copy-number estimation and region testing",
		UsageText: "liquidbin [global options] command [command options] [arguments...]",
		Commands: []*cli.Command{
			predictcn.Command,
			regiontest.Command,
			&docs.BuildCmd,
		},
		EnableShellCompletion: true,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cli.ShowAppHelp(cmd)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
