package ioingest

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
)

// headSize is the number of leading bytes used for format detection.
const headSize = 1000

var (
	reTEI    = regexp.MustCompile(`<(\w+:)?TEI\b`)
	reTurtle = regexp.MustCompile(`^\s*@prefix\s`)
	reJSON   = regexp.MustCompile(`^\s*\{\s*"`)
)

// Detect classifies a document by its leading bytes. The priority is
// TEI, Turtle, JSON, and RDF/XML for everything else. A TEI document
// must mention the TEI namespace in its head.
func Detect(path string) (model.SourceFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", FileMissingError(path, err)
	}
	defer f.Close()

	buf := make([]byte, headSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", FileMissingError(path, err)
	}
	head := buf[:n]

	switch {
	case reTEI.Match(head):
		if !bytes.Contains(head, []byte(tree.TEI)) {
			return "", TEINamespaceError(path)
		}
		return model.SourceTEI, nil
	case reTurtle.Match(head):
		return model.SourceTurtle, nil
	case reJSON.Match(head):
		return model.SourceJSON, nil
	}
	return model.SourceRDFXML, nil
}
