/*
Copyright © 2026 Don Green <don.green.here@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getFetchCmd() *cobra.Command {
	var fetchAll bool

	fetchCmd := &cobra.Command{
		Use:   "fetch [state-code...]",
		Short: "Download state checklist files",
		Long: `Fetch downloads the USDA checklist CSV for one or more states
and records each download in the fetch ledger.

The checklist body is stored verbatim, so parsing can be re-run later
without another download. Failed downloads are recorded too, with
their HTTP status or transport error.

Examples:
  npdb fetch NC
  npdb fetch NC VA GA
  npdb fetch --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, fetchAll)
		},
	}

	fetchCmd.Flags().BoolVarP(&fetchAll, "all", "a",
		false, "fetch every active state")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, args []string, all bool) error {
	if !all && len(args) == 0 {
		return cmd.Help()
	}

	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	states := args
	if all {
		states = nil
		for _, st := range reg.Active() {
			states = append(states, st.Code)
		}
	}

	ledger := iofetch.NewLedger(op)
	fetcher := iofetch.New(&cfg.Fetch, ledger, reg)

	var failed int
	for _, stateCode := range states {
		fetchID, err := fetcher.FetchChecklist(ctx, stateCode)
		if err != nil {
			gn.PrintErrorMessage(err)
			failed++
			continue
		}
		gn.Info("Fetched checklist for <em>%s</em> (fetch %d)",
			stateCode, fetchID)
	}

	if failed > 0 {
		gn.Warn("%d of %d downloads failed; see the log for details",
			failed, len(states))
	}
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb parse <state>' to ingest the checklist")

	return nil
}
