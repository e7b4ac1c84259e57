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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/pkg/codec"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var entryID, format, output string

	exportCmd := &cobra.Command{
		Use:   "export <dict-id>",
		Short: "Export a dictionary or one of its entries",
		Long: `Write a stored dictionary as a TEI Lex-0 document or as OntoLex Turtle.
With --entry only one entry is written, it can also be given as JSON-LD.

Examples:
  dictmatrix export 01J9Z... -o dict.xml
  dictmatrix export 01J9Z... -f ontolex -o dict.ttl
  dictmatrix export 01J9Z... -e 01J9Y... -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, entryID, format, output)
		},
	}

	exportCmd.Flags().StringVarP(&entryID, "entry", "e", "",
		"export only this entry")
	exportCmd.Flags().StringVarP(&format, "format", "f", "tei",
		"output format: tei, ontolex or json (json needs --entry)")
	exportCmd.Flags().StringVarP(&output, "output", "o", "",
		"output file (default STDOUT)")
	return exportCmd
}

func runExport(
	cmd *cobra.Command,
	args []string,
	entryID, format, output string,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	f := model.Format(format)
	switch {
	case f != model.FormatTEI && f != model.FormatOntolex && f != model.FormatJSON:
		err := fmt.Errorf("unknown format %q", format)
		gn.PrintErrorMessage(err)
		return err
	case f == model.FormatJSON && entryID == "":
		err := fmt.Errorf("format %q needs --entry", format)
		gn.PrintErrorMessage(err)
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer a.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			err = iofs.CopyFileError(output, err)
			gn.PrintErrorMessage(err)
			return err
		}
		defer file.Close()
		w = file
	}
	bw := bufio.NewWriter(w)
	cw := &countWriter{w: bw}

	if entryID != "" {
		err = exportEntry(ctx, a, cw, args[0], entryID, f)
	} else {
		err = exportDictionary(ctx, a, cw, args[0], f)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if output != "" {
		gn.Info("Wrote %s to <em>%s</em>", humanize.Bytes(uint64(cw.n)), output)
	}
	return nil
}

func exportEntry(
	ctx context.Context,
	a *app,
	w io.Writer,
	dictID, entryID string,
	f model.Format,
) error {
	e, err := a.store.Entry(ctx, dictID, entryID)
	if err != nil {
		return err
	}
	var res string
	switch f {
	case model.FormatJSON:
		bs, err := codec.EntryToJSONLD(*e)
		if err != nil {
			return err
		}
		res = string(bs)
	case model.FormatOntolex:
		if res, err = codec.EntryToTurtle(*e); err != nil {
			return err
		}
	default:
		res = codec.EntryToTEI(*e, codec.TEIOptions{})
	}
	_, err = io.WriteString(w, res+"\n")
	return err
}

func exportDictionary(
	ctx context.Context,
	a *app,
	w io.Writer,
	dictID string,
	f model.Format,
) error {
	d, err := a.store.Dictionary(ctx, dictID)
	if err != nil {
		return err
	}
	if d.Entries, err = a.store.Entries(ctx, dictID, nil); err != nil {
		return err
	}
	if f == model.FormatOntolex {
		return codec.EntriesToTurtle(w, d.Entries)
	}
	return codec.DictionaryToTEI(w, d)
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
