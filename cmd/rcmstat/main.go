// SPDX-License-Identifier: MIT

// Command rcmstat prints summary statistics of a CNMF reconstruction and,
// on request, of its residuals against the raw memmap movie.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/katalvlaran/cnmfrecon/cnmf"
	"github.com/katalvlaran/cnmfrecon/config"
	"github.com/katalvlaran/cnmfrecon/memmap"
	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/store"
)

const helpMessage = `

rcmstat prints statistics of the reconstructed movie A·C (+ b·f) described by a TOML manifest.

Usage: rcmstat [options] -config <manifest.toml>

      -config    (string)  TOML manifest ([movie], [estimates], [reconstruction], [logging])
      -frames    (string)  Frame range "start:stop" or a single frame index (default all)
      -residuals (flag)    Also print residual statistics over the range (needs [movie] path)
  -h, -help      (flag)    Show help message

`

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Print(helpMessage)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "rcmstat: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("rcmstat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		showHelp  = fs.Bool("help", false, "Show help message")
		cfgPath   = fs.String("config", "", "TOML manifest")
		frames    = fs.String("frames", "", "Frame range start:stop or index")
		residuals = fs.Bool("residuals", false, "Print residual statistics")
	)
	fs.BoolVar(showHelp, "h", false, "Show help message")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v: %w", err, errUsage)
	}
	if *showHelp || *cfgPath == "" {
		return errUsage
	}
	sel, err := parseFrames(*frames)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	logs := cfg.Logging.SetLogger()
	defer logs.Close()

	est, err := store.LoadFile(cfg.Estimates.Path)
	if err != nil {
		return err
	}
	log.Printf("[rcmstat] loaded %d components over %s frames from %s",
		est.NComponents(), humanize.Comma(int64(est.NFrames())), cfg.Estimates.Path)

	var (
		raw   ndarray.Movie // stays a nil interface without a movie
		movie *memmap.Movie
	)
	if cfg.HasMovie() {
		if movie, err = memmap.Open(cfg.Movie.Path); err != nil {
			return err
		}
		defer movie.Close()
		log.Printf("[rcmstat] mapped %s (%s)", movie.Path(), humanize.Bytes(uint64(movie.Size())))
		raw = movie
	}

	rec, err := cnmf.NewReconstructor(est, raw)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	rcm, err := rec.RCM(opts...)
	if err != nil {
		return err
	}
	shape := rcm.Shape()
	fmt.Fprintf(stdout, "rcm: shape (%d, %d, %d) dtype %s components %d\n",
		shape[0], shape[1], shape[2], rcm.DType(), rcm.NComponents())
	fmt.Fprintf(stdout, "rcm: envelope [%g, %g]\n", rcm.Min(), rcm.Max())
	if movie != nil {
		l := movie.Layout()
		fmt.Fprintf(stdout, "movie: %s order %s (%s)\n", movie.Path(), l.Order, humanize.Bytes(uint64(movie.Size())))
	}

	rng, err := rec.ReconstructedMovie(sel, opts...)
	if err != nil {
		return err
	}
	printStats(stdout, "reconstruction "+sel.String(), rng)

	if !*residuals {
		return nil
	}
	res, err := rec.Residuals(sel)
	if err != nil {
		return err
	}
	printStats(stdout, "residuals "+sel.String(), res)

	lres, err := rec.LazyResiduals(cfg.Reconstruction.ChunkFrames)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "residuals: envelope [%g, %g]\n", lres.Min(), lres.Max())

	return nil
}

func printStats(w io.Writer, label string, a *ndarray.Array) {
	lo, hi := a.MinMax()
	fmt.Fprintf(w, "%s: %d frames min %g max %g mean %g\n", label, a.Frames(), lo, hi, a.Mean())
}

// parseFrames reads "", "i" or "start:stop".
func parseFrames(s string) (ndarray.Selector, error) {
	if s == "" {
		return ndarray.All(), nil
	}
	a, b, isSpan := strings.Cut(s, ":")
	start, err := strconv.Atoi(a)
	if err != nil {
		return ndarray.Selector{}, fmt.Errorf("bad -frames %q: want start:stop or an index", s)
	}
	if !isSpan {
		return ndarray.Index(start), nil
	}
	stop, err := strconv.Atoi(b)
	if err != nil {
		return ndarray.Selector{}, fmt.Errorf("bad -frames %q: want start:stop or an index", s)
	}

	return ndarray.Span(start, stop), nil
}
