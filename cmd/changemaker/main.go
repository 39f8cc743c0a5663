// Command changemaker computes exact change for one amount from the command line.
//
//	changemaker -register 5:2,10:1 -amount 20
//	changemaker -state machine.txt -amount 850 -debug
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/infrastructure/storage"
	"svw.info/changemaker/internal/money"
	"svw.info/changemaker/internal/solver"
	"svw.info/changemaker/internal/validator"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("changemaker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	regFlag := fs.String("register", "", "coins as denom:count pairs, e.g. 5:2,10:1")
	stateFile := fs.String("state", "", "machine state file to take the register from")
	amount := fs.Int("amount", 0, "amount of change in cents")
	debug := fs.Bool("debug", false, "include the DP trace and table preview")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	reg, err := loadRegister(ctx, *regFlag, *stateFile)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	req := domain.ChangeRequest{Register: reg, Amount: *amount, Debug: *debug}
	if err := validator.New(0, 0).Validate(ctx, req); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	res, st := solver.NewBoundedSolver(solver.Limits{}).Solve(req)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	} else {
		printResult(stdout, res)
		fmt.Fprintf(stdout, "nodes: %d, took %s\n", st.Nodes, st.Duration)
	}
	if !res.Success {
		return 1
	}
	return 0
}

func loadRegister(ctx context.Context, inline, stateFile string) (domain.Register, error) {
	switch {
	case inline != "" && stateFile != "":
		return nil, errors.New("use either -register or -state")
	case stateFile != "":
		st, err := storage.NewFS(stateFile).Load(ctx)
		if err != nil {
			return nil, err
		}
		return st.Register, nil
	case inline != "":
		return parseRegister(inline)
	default:
		return nil, errors.New("a register is required (-register or -state)")
	}
}

// parseRegister reads "denom:count" pairs separated by commas.
func parseRegister(s string) (domain.Register, error) {
	var out domain.Register
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, c, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("register entry %q wants denom:count", part)
		}
		denom, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("register entry %q: %w", part, err)
		}
		count, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, fmt.Errorf("register entry %q: %w", part, err)
		}
		out = append(out, domain.CoinSlot{Denom: denom, Count: count})
	}
	return out, nil
}

func printResult(w io.Writer, res *domain.Result) {
	if !res.Success {
		fmt.Fprintf(w, "failed (%s): %s\n", res.Failure, res.Message)
	} else {
		fmt.Fprintln(w, res.Message)
		denoms := make([]int, 0, len(res.CoinUsage))
		for d := range res.CoinUsage {
			denoms = append(denoms, d)
		}
		sort.Ints(denoms)
		for _, d := range denoms {
			fmt.Fprintf(w, "  %d × %s\n", res.CoinUsage[d], money.Format(d))
		}
		fmt.Fprintf(w, "coins: %d\n", res.CoinCount())
	}
	if res.Debug == nil {
		return
	}
	fmt.Fprintln(w, "trace:")
	for _, line := range res.Debug.Trace {
		fmt.Fprintln(w, "  "+line)
	}
	n := res.Debug.Naive
	switch {
	case !n.Enabled:
		fmt.Fprintf(w, "naive: disabled for %s\n", money.Format(n.AmountTried))
	case n.ResultCoins == nil:
		fmt.Fprintf(w, "naive: no solution, %d calls, truncated=%t\n", n.Calls, n.Truncated)
	default:
		fmt.Fprintf(w, "naive: %d coins, %d calls, truncated=%t\n", *n.ResultCoins, n.Calls, n.Truncated)
	}
}
