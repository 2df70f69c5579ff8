package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rafelafrance/ocrensemble/align"
	"github.com/rafelafrance/ocrensemble/charset"
	"github.com/rafelafrance/ocrensemble/consensus"
	"github.com/rafelafrance/ocrensemble/ensemble"
	"github.com/rafelafrance/ocrensemble/fingerprint"
	"github.com/rafelafrance/ocrensemble/multialign"
	"github.com/rafelafrance/ocrensemble/ocrconfig"
	"github.com/rafelafrance/ocrensemble/postprocess"
)

/******************************************************************************

This file holds one function per subcommand; main.go only wires flags and
actions. Every subcommand that consumes lines of text accepts them either
as positional arguments or, if none are given, one per line on stdin, so
they compose in a shell pipeline.

******************************************************************************/

func buildMatrixCommand() *cli.Command {
	return &cli.Command{
		Name:  "build-matrix",
		Usage: "build or extend a character substitution matrix from a font",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "font-path", Usage: "path to a TrueType font (required)"},
			&cli.Float64Flag{Name: "font-point", Value: 24, Usage: "interior point size to render at"},
			&cli.StringFlag{Name: "char-set", Value: "default", Usage: "name of the character set to build"},
			&cli.StringFlag{Name: "db-path", Usage: "path to the SQLite matrix store (required)"},
			&cli.StringFlag{Name: "chars", Usage: "every character the matrix must cover (required)"},
			&cli.BoolFlag{Name: "force", Usage: "rebuild every pair even if the font fingerprint is unchanged"},
		},
		Action: func(c *cli.Context) error {
			return buildMatrix(c)
		},
	}
}

func buildMatrix(c *cli.Context) error {
	fontPath := c.String("font-path")
	charSet := c.String("char-set")
	dbPath := c.String("db-path")

	if fontPath == "" || dbPath == "" || c.String("chars") == "" {
		return fmt.Errorf("build-matrix: --font-path, --db-path, and --chars are required")
	}

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return fmt.Errorf("reading font: %w", err)
	}
	fontDigest := fingerprint.Bytes(fontBytes)

	store, err := charset.OpenSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening matrix store: %w", err)
	}
	defer store.Close()

	existing, err := store.Load(charSet)
	if err != nil {
		return fmt.Errorf("loading existing matrix: %w", err)
	}

	newChars := make(map[rune]bool)
	for _, r := range c.String("chars") {
		newChars[r] = true
	}

	allChars := make(map[rune]bool, len(newChars))
	for r := range newChars {
		allChars[r] = true
	}
	for _, row := range existing.Entries() {
		allChars[row.Pair.C1] = true
		allChars[row.Pair.C2] = true
	}

	key := fingerprint.NewKey(fontDigest, allChars)
	keyPath := dbPath + "." + charSet + ".fingerprint"

	rebuildFromScratch := c.Bool("force") || keyStale(keyPath, key)
	if rebuildFromScratch {
		existing = nil
	}

	builder, err := charset.NewBuilder(fontBytes, ocrconfig.CanvasSize(), c.Float64("font-point"))
	if err != nil {
		return fmt.Errorf("constructing renderer: %w", err)
	}

	matrix, err := builder.Build(newChars, existing)
	if err != nil {
		return fmt.Errorf("building matrix: %w", err)
	}

	if err := store.Replace(charSet, matrix); err != nil {
		return fmt.Errorf("persisting matrix: %w", err)
	}

	if err := writeKey(keyPath, key); err != nil {
		return fmt.Errorf("writing fingerprint: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%s: %d pairs (full rebuild: %v)\n", charSet, matrix.Len(), rebuildFromScratch)
	return nil
}

// keyStale reports whether the fingerprint recorded at keyPath differs
// from want, or there is none recorded yet.
func keyStale(keyPath string, want fingerprint.Key) bool {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return true
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	if len(parts) != 2 {
		return true
	}
	have := fingerprint.Key{Font: parts[0], Charset: parts[1]}
	return fingerprint.Stale(have, want)
}

func writeKey(keyPath string, key fingerprint.Key) error {
	return os.WriteFile(keyPath, []byte(key.Font+"\n"+key.Charset+"\n"), 0o644)
}

func distanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "distance",
		Usage: "print every pairwise Levenshtein distance between lines, closest first",
		Action: func(c *cli.Context) error {
			lines, err := readLines(c)
			if err != nil {
				return err
			}
			for _, d := range align.DistanceAll(lines) {
				fmt.Fprintf(c.App.Writer, "%d\t%d\t%d\n", d.Distance, d.I, d.J)
			}
			return nil
		},
	}
}

func alignCommand() *cli.Command {
	return &cli.Command{
		Name:  "align",
		Usage: "filter outliers and build a progressive multiple alignment over lines",
		Flags: ocrconfig.Flags(),
		Action: func(c *cli.Context) error {
			cfg, err := ocrconfig.Load(c.String("config"))
			if err != nil {
				return err
			}
			cfg = ocrconfig.ApplyFlags(cfg, c)
			lines, err := readLines(c)
			if err != nil {
				return err
			}

			aligner, err := loadAligner(cfg)
			if err != nil {
				return err
			}

			lines = multialign.FilterOutliers(lines, cfg.FilterThreshold)
			for _, row := range multialign.Align(aligner, lines) {
				fmt.Fprintln(c.App.Writer, row)
			}
			return nil
		},
	}
}

func consensusCommand() *cli.Command {
	return &cli.Command{
		Name:  "consensus",
		Usage: "build the plurality-vote consensus of equal-length aligned rows",
		Action: func(c *cli.Context) error {
			rows, err := readLines(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, consensus.Build(rows))
			return nil
		},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "fuse every pipeline combination of the given lines and score each against gold",
		Flags: append(ocrconfig.Flags(), &cli.StringFlag{Name: "gold", Usage: "gold-standard transcription (required)"}),
		Action: func(c *cli.Context) error {
			return runScore(c)
		},
	}
}

func runScore(c *cli.Context) error {
	cfg, err := ocrconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	cfg = ocrconfig.ApplyFlags(cfg, c)
	gold := c.String("gold")
	if gold == "" {
		return fmt.Errorf("score: --gold is required")
	}

	labeled, err := readLabeledLines(c)
	if err != nil {
		return err
	}
	if len(labeled) == 0 {
		return fmt.Errorf("no lines given")
	}

	aligner, err := loadAligner(cfg)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(labeled))
	for label := range labeled {
		labels = append(labels, label)
	}

	var dict postprocess.Dictionary
	if cfg.PostProcess {
		dict = postprocess.NewDefaultFrequencyDictionary()
	}

	for _, pipeline := range ensemble.Pipelines(labels) {
		lines := make([]string, len(pipeline))
		for i, label := range pipeline {
			lines[i] = labeled[label]
		}

		filtered := multialign.FilterOutliers(lines, cfg.FilterThreshold)
		aligned := multialign.Align(aligner, filtered)
		text := consensus.Build(aligned)
		fmt.Fprintf(c.App.Writer, "%v\t%d\t%s\n", pipeline, ensemble.Score(gold, text), text)

		if dict != nil {
			postText := postprocess.Run(text, dict, cfg.VocabLen)
			fmt.Fprintf(c.App.Writer, "%v+post\t%d\t%s\n", pipeline, ensemble.Score(gold, postText), postText)
		}
	}
	return nil
}

// loadAligner builds an Aligner from cfg. If cfg.DBPath names a store with
// a matrix for cfg.CharSet, that matrix becomes the scorer; otherwise the
// aligner falls back to plain match/mismatch scoring.
func loadAligner(cfg ocrconfig.Config) (*align.Aligner, error) {
	a := &align.Aligner{GapOpen: cfg.GapOpen, GapExtend: cfg.GapExtend}
	if cfg.DBPath == "" {
		return a, nil
	}

	store, err := charset.OpenSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening matrix store: %w", err)
	}
	defer store.Close()

	matrix, err := store.Load(cfg.CharSet)
	if err != nil {
		return nil, fmt.Errorf("loading matrix: %w", err)
	}
	a.Scorer = matrix
	return a, nil
}

// readLines returns c.Args() if any were given, otherwise one entry per
// non-empty line of stdin.
func readLines(c *cli.Context) ([]string, error) {
	if c.Args().Len() > 0 {
		return c.Args().Slice(), nil
	}
	return scanStdin(c.App.Reader)
}

// readLabeledLines reads "label\tline" pairs, one per positional argument
// or stdin line, for use with the score subcommand's pipeline power set.
func readLabeledLines(c *cli.Context) (map[string]string, error) {
	var raw []string
	if c.Args().Len() > 0 {
		raw = c.Args().Slice()
	} else {
		var err error
		raw, err = scanStdin(c.App.Reader)
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]string, len(raw))
	for _, entry := range raw {
		label, line, ok := strings.Cut(entry, "\t")
		if !ok {
			return nil, fmt.Errorf("expected \"label<TAB>line\", got %q", entry)
		}
		out[label] = line
	}
	return out, nil
}

func scanStdin(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
