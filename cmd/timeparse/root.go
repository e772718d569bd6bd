package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/cli/go-gh/v2/pkg/term"
	timeparse "github.com/jparise/go-timeparse"
	"github.com/jparise/go-timeparse/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

// granularityMode represents how ambiguous "M:S"-shaped clock
// expressions are read.
type granularityMode string

const (
	granularitySeconds granularityMode = "seconds"
	granularityMinutes granularityMode = "minutes"
)

func (g *granularityMode) String() string {
	return string(*g)
}

func (g *granularityMode) Set(v string) error {
	switch v {
	case "seconds", "minutes":
		*g = granularityMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"seconds\" or \"minutes\"")
	}
}

func (g *granularityMode) Type() string {
	return "granularity"
}

func (g *granularityMode) value() timeparse.Granularity {
	if *g == granularityMinutes {
		return timeparse.GranularityMinutes
	}
	return timeparse.GranularitySeconds
}

var (
	version = "dev"

	// Flags.
	color       = colorAuto
	granularity = granularitySeconds
	jobs        int
)

var rootCmd = &cobra.Command{
	Use:   "timeparse [flags] <expression>...",
	Short: "Convert duration expressions to seconds",
	Long: `timeparse converts human-written duration expressions into a count
of seconds.

<expression> can take several shapes:
  1:24              clock form (1 minute, 24 seconds)
  1:22:33.5         hour-clock form with fractional seconds
  1:02:03:04        day-clock form
  1d2h3m            compact unit form
  1 minute, 24 secs word form with separators
  :22               bare seconds clock
  30                plain numerals are seconds

Expressions may carry a leading sign ("-1:24"). Results that are whole
numbers of seconds print as integers; anything with a fractional
component prints as a float.

A bare "1:24" is ambiguous between minutes:seconds and hours:minutes;
it reads as minutes:seconds unless --granularity minutes is given.

With no arguments (or a single "-"), expressions are read from standard
input, one per line.

Examples:
  timeparse 1:24
  timeparse "1 minute, 24 secs" 1.2minutes
  timeparse -g minutes 1:24
  timeparse - < expressions.txt`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if jobs < 1 || jobs > 100 {
			return fmt.Errorf("--jobs must be between 1 and 100, got %d", jobs)
		}
		return nil
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().Var(&color, "color",
		"colorize output: auto, always, never")
	rootCmd.Flags().VarP(&granularity, "granularity", "g",
		"ambiguous \"M:S\" handling: seconds, minutes")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 10,
		"maximum concurrent parses in batch mode")
}

func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var colorize bool
	switch color {
	case colorAlways:
		colorize = true
	case colorNever:
		colorize = false
	case colorAuto:
		terminal := term.FromEnv()
		colorize = terminal.IsColorEnabled()
	}

	out := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize)

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return runBatch(ctx, cmd.InOrStdin(), out, granularity.value(), jobs)
	}
	return runArgs(args, out, granularity.value())
}

// runArgs parses each argument expression in order. A single expression
// prints its bare value; several print as "expression: value" lines.
func runArgs(exprs []string, out *output.Output, g timeparse.Granularity) error {
	labeled := len(exprs) > 1

	failed := 0
	for _, expr := range exprs {
		v, err := timeparse.ParseGranularity(expr, g)
		if err != nil {
			failed++
			out.Warningf("%q: %v", expr, err)
			continue
		}
		if labeled {
			out.Result(expr, v.String())
		} else {
			out.Plain(v.String())
		}
	}

	return failedError(failed, len(exprs), exprs)
}

// runBatch reads newline-delimited expressions from r and parses them
// with bounded concurrency. The grammar tables are immutable, so parses
// share them freely across goroutines; results print in input order.
func runBatch(ctx context.Context, r io.Reader, out *output.Output, g timeparse.Granularity, jobs int) error {
	var exprs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if len(exprs) == 0 {
		return nil
	}

	type result struct {
		value timeparse.Value
		err   error
	}
	results := make([]result, len(exprs))

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(jobs))

	for i, expr := range exprs {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(i int, expr string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i].value, results[i].err = timeparse.ParseGranularity(expr, g)
		}(i, expr)
	}

	wg.Wait()

	failed := 0
	for i, expr := range exprs {
		if results[i].err != nil {
			failed++
			out.Warningf("%q: %v", expr, results[i].err)
			continue
		}
		out.Result(expr, results[i].value.String())
	}

	return failedError(failed, len(exprs), exprs)
}

// failedError reports an error only when every expression failed;
// partial failures are warnings alone.
func failedError(failed, total int, exprs []string) error {
	if failed < total {
		return nil
	}
	if total == 1 {
		return fmt.Errorf("cannot parse %q", exprs[0])
	}
	return fmt.Errorf("failed to parse all %d expressions", total)
}
