package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "retail",
		Usage: "catalog, ledger and point-of-sale service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the GraphQL gateway and the ops gRPC server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back postgres schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply every pending migration",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: migrateDown,
					},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
