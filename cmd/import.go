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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/internal/ioimport"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var flags metaFlags

	importCmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Import a dictionary from a file or a URL",
		Long: `Import a dictionary document and wait until it is stored.

The document can be OntoLex in RDF/XML or Turtle, TEI Lex-0, or JSON.
The format is detected from the content. A URL is downloaded first.

Without --dict-id a new dictionary is created, its id is the id of the
import job. With --dict-id the dictionary is replaced, entries with the
same lemma and part of speech keep their ids.

Examples:
  dictmatrix import dict.ttl -k my-key
  dictmatrix import https://example.org/dict.xml -k my-key -r PUBLIC
  dictmatrix import dict.xml -k my-key -d 01J9Z... -l en -g gen -g lrn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, &flags)
		},
	}
	flags.register(importCmd)
	return importCmd
}

func runImport(cmd *cobra.Command, args []string, flags *metaFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	job := &jobs.ImportJob{
		ID:     uuid.NewString(),
		Kind:   jobs.KindFile,
		State:  jobs.Scheduled,
		APIKey: flags.apiKey,
		DictID: flags.dictID,
		Meta:   flags.meta(),
	}

	src := args[0]
	if isURL(src) {
		job.URL = src
	} else {
		path, err := stageFile(src, flags.apiKey)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		job.File = path
	}

	if err := job.Validate(); err != nil {
		if job.File != "" {
			_ = iofs.RemoveFile(job.File)
		}
		gn.PrintErrorMessage(err)
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		if job.File != "" {
			_ = iofs.RemoveFile(job.File)
		}
		gn.PrintErrorMessage(err)
		return err
	}
	defer a.Close()

	return runImportJob(ctx, a, job, a.importer().ProcessFile)
}

// getImportAPICmd returns the import-api command.
func getImportAPICmd() *cobra.Command {
	var flags metaFlags
	var remoteKey string

	importAPICmd := &cobra.Command{
		Use:   "import-api <endpoint> <remote-dict-id>",
		Short: "Import a dictionary from another dictionary service",
		Long: `Copy a dictionary from a remote service that offers the same REST API.

The metadata and the list of entries are requested first. Then every
publicly released entry is fetched in the best format the remote service
advertises for it: JSON, OntoLex or TEI. The pause between entry requests
is set by api_import.rate_limit.

Examples:
  dictmatrix import-api https://dict.example.org/ remote-id -k my-key
  dictmatrix import-api https://dict.example.org/ remote-id -k my-key \
    --remote-key their-key -d 01J9Z...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportAPI(cmd, args, &flags, remoteKey)
		},
	}
	flags.register(importAPICmd)
	importAPICmd.Flags().StringVar(&remoteKey, "remote-key", "",
		"access key for the remote service")
	return importAPICmd
}

func runImportAPI(
	cmd *cobra.Command,
	args []string,
	flags *metaFlags,
	remoteKey string,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	job := &jobs.ImportJob{
		ID:           uuid.NewString(),
		Kind:         jobs.KindAPI,
		State:        jobs.Scheduled,
		APIKey:       flags.apiKey,
		DictID:       flags.dictID,
		URL:          args[0],
		RemoteDictID: args[1],
		RemoteAPIKey: remoteKey,
		Meta:         flags.meta(),
	}
	if err := job.Validate(); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer a.Close()

	var bar *pb.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = pb.Full.Start(total)
			bar.Set("prefix", "Entries ")
			bar.Set(pb.CleanOnFinish, true)
		}
		bar.SetCurrent(int64(done))
		if done == total {
			bar.Finish()
		}
	}
	imp := a.importer(ioimport.OptProgress(progress))
	return runImportJob(ctx, a, job, imp.ProcessAPI)
}

// runImportJob stores the job, processes it and prints the outcome.
func runImportJob(
	ctx context.Context,
	a *app,
	job *jobs.ImportJob,
	process func(context.Context, string) error,
) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := a.store.CreateImportJob(ctx, job); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Import job <em>%s</em> started", job.ID)

	if err := process(ctx, job.ID); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	dictID := job.DictID
	if dictID == "" {
		dictID = job.ID
	}
	dict, err := a.store.Dictionary(ctx, dictID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Imported <em>%s</em> entries into dictionary <em>%s</em> in %s",
		humanize.Comma(int64(dict.NEntries)), dict.ID,
		gnfmt.TimeString(time.Since(now).Seconds()),
	)
	return nil
}

// stageFile copies a local document into the upload directory, so the
// import can remove it afterwards without touching the original.
func stageFile(src, apiKey string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", iofs.ReadFileError(src, err)
	}
	defer f.Close()

	path, n, err := iofs.StageFile(
		cfg.UploadDir(), apiKey, filepath.Base(src), f, time.Now(),
	)
	if err != nil {
		return "", err
	}
	gn.Info("Staged <em>%s</em> (%s)", src, humanize.Bytes(uint64(n)))
	return path, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
