// Package ioingest turns uploaded documents of any supported format into
// the canonical dictionary model.
package ioingest

import (
	"context"
	"log/slog"
	"os"

	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/extract"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
)

// Canonicalizer detects the format of a document and converts it into a
// dictionary.
type Canonicalizer struct {
	tei Transformer
}

// New creates a Canonicalizer. TEI documents go through the configured
// XSLT stylesheet, or through the built-in TEI Lex-0 mapping when no
// stylesheet is set.
func New(cfg *config.Config) *Canonicalizer {
	res := &Canonicalizer{tei: NewTEITransformer()}
	if cfg.Ingest.TEIStylesheet != "" {
		res.tei = NewXSLTTransformer(
			cfg.Ingest.XSLTProcessor, cfg.Ingest.TEIStylesheet,
		)
	}
	return res
}

// NewWithTransformer creates a Canonicalizer with a custom TEI transformer.
func NewWithTransformer(tei Transformer) *Canonicalizer {
	return &Canonicalizer{tei: tei}
}

// Canonicalize reads the document at path. The language, if given,
// overrides the source language found in the document. The returned
// dictionary has no id, and its release may be empty.
func (c *Canonicalizer) Canonicalize(
	ctx context.Context,
	path, language string,
) (*model.Dictionary, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Canonicalizing document", "path", path, "format", format)

	if format == model.SourceJSON {
		dict, err := fromJSON(path)
		if err != nil {
			return nil, err
		}
		if language != "" {
			dict.Meta.SourceLanguage = model.ToISO639(language)
		}
		return dict, nil
	}

	root, err := c.toTree(ctx, path, format)
	if err != nil {
		return nil, err
	}

	res, err := extract.Extract(root, language)
	if err != nil {
		return nil, err
	}
	for _, e := range res.Errors {
		slog.Warn("Skipped entry", "path", path, "error", e)
	}
	slog.Info("Extracted dictionary",
		"path", path,
		"entries", len(res.Dictionary.Entries),
		"total", res.Total,
		"skipped", len(res.Errors),
	)
	return res.Dictionary, nil
}

func (c *Canonicalizer) toTree(
	ctx context.Context,
	path string,
	format model.SourceFormat,
) (*tree.Node, error) {
	if format == model.SourceTEI {
		return c.tei.Transform(ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, FileMissingError(path, err)
	}
	defer f.Close()

	if format == model.SourceTurtle {
		return turtleToTree(f)
	}

	root, err := tree.Parse(f)
	if err != nil {
		return nil, err
	}
	if root.Local != "RDF" {
		return nil, NotRDFError(root.Local)
	}
	return root, nil
}
