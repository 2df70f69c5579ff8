/*
Command ocrensemble drives the OCR ensemble fusion core from the command
line: building character substitution matrices (build-matrix), printing
pairwise distances (distance), running the multiple aligner and
consensus builder directly over strings (align, consensus), and scoring
every combination of pipeline outputs against a gold standard (score).
No subcommand runs OCR on an image.
*/
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is the entry point; it is kept separate from application() so
// tests can drive the *cli.App directly.
func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

func application() *cli.App {
	return &cli.App{
		Name:  "ocrensemble",
		Usage: "fuse multiple noisy OCR transcriptions into one consensus line",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML configuration file",
			},
		},

		Commands: []*cli.Command{
			buildMatrixCommand(),
			distanceCommand(),
			alignCommand(),
			consensusCommand(),
			scoreCommand(),
		},
	}
}
