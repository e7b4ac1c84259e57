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
	"time"

	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getLinkCmd returns the link command.
func getLinkCmd() *cobra.Command {
	var output string

	linkCmd := &cobra.Command{
		Use:   "link <job.json>",
		Short: "Link senses of two dictionaries",
		Long: `Run a linking job and wait for its result.

The job file has the same JSON shape as the body of /linking/submit:

  {
    "source": {"id": "dict1", "entries": ["e1"], "apiKey": "key"},
    "target": {"id": "dict2", "endpoint": "https://dict.example.org/"},
    "config": {"foo": "ontolex-default"}
  }

A side with an endpoint is copied from the remote service first. The target
"babelnet" uses the knowledge base service from linking.babelnet_url. Other
jobs go to linking.naisc_executable when it is set, or to the REST service
at linking.naisc_url.

Examples:
  dictmatrix link job.json
  dictmatrix link job.json -o result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, args, output)
		},
	}

	linkCmd.Flags().StringVarP(&output, "output", "o", "",
		"write the result to a file instead of STDOUT")
	return linkCmd
}

func runLink(cmd *cobra.Command, args []string, output string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bs, err := os.ReadFile(args[0])
	if err != nil {
		err = iofs.ReadFileError(args[0], err)
		gn.PrintErrorMessage(err)
		return err
	}
	var job jobs.LinkingJob
	enc := gnfmt.GNjson{}
	if err = enc.Decode(bs, &job); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer a.Close()

	start := time.Now()
	linker := a.linker()
	id, err := linker.Submit(ctx, &job)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Linking job <em>%s</em> started", id)

	if err = linker.Process(ctx, id); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res, err := a.store.LinkingJob(ctx, id)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Found <em>%d</em> links with %s in %s",
		len(res.Result()), res.ServiceURL,
		gnfmt.TimeString(time.Since(start).Seconds()),
	)

	pretty := gnfmt.GNjson{Pretty: true}
	out, err := pretty.Encode(res.Result())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err = os.WriteFile(output, out, 0644); err != nil {
		err = iofs.CopyFileError(output, err)
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
