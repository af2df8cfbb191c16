package main

import (
	"context"
	"os"

	"github.com/jrsteele09/go-efact-client/internal/config"
	"github.com/jrsteele09/go-efact-client/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	c := config.New()
	logging.Setup(c.GetLogLevel(), c.GetEnv())

	cmd := &cli.Command{
		Name:    "efact",
		Usage:   "Retrieve electronic invoice documents (PDF, XML, CDR) by ticket",
		Version: "1.0.0",
		Flags:   credentialFlags(),
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and show the authenticated user",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runLogin(ctx, c, credentials(cmd))
				},
			},
			{
				Name:      "fetch",
				Usage:     "Retrieve the documents of a ticket",
				ArgsUsage: "<ticket>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "save",
						Aliases: []string{"s"},
						Usage:   "Save every retrieved document into the download directory",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runFetch(ctx, c, credentials(cmd), cmd.Args().First(), cmd.Bool("save"))
				},
			},
			{
				Name:  "view",
				Usage: "Sign in and serve documents on the local viewer until interrupted",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runView(ctx, c, credentials(cmd))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("efact failed")
		os.Exit(1)
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Account user name",
			Sources: cli.EnvVars("EFACT_USERNAME"),
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password",
			Sources: cli.EnvVars("EFACT_PASSWORD"),
		},
	}
}
