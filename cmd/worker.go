/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Kinds of background jobs. They are the first argument of the worker
// command.
const (
	kindImport    = "import"
	kindAPIImport = "api-import"
	kindLink      = "link"
)

// getWorkerCmd returns the hidden worker command. The service starts it
// as a child process for every queued job.
func getWorkerCmd() *cobra.Command {
	workerCmd := &cobra.Command{
		Use:    "worker <kind> <job-id>",
		Short:  "Run one stored job",
		Hidden: true,
		Args:   cobra.ExactArgs(2),
		RunE:   runWorker,
	}
	return workerCmd
}

func runWorker(_ *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	kind, id := args[0], args[1]
	switch kind {
	case kindImport, kindAPIImport, kindLink:
	default:
		return fmt.Errorf("unknown job kind %q", kind)
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer a.Close()

	// Outcomes are written to the job records, the error goes to stderr
	// for the parent process and sets the exit code.
	switch kind {
	case kindImport:
		err = a.importer().ProcessFile(ctx, id)
	case kindAPIImport:
		err = a.importer().ProcessAPI(ctx, id)
	default:
		err = a.linker().Process(ctx, id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
