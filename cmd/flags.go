package cmd

import (
	"fmt"
	"os"
	"strings"

	dictmatrix "github.com/gnames/dictmatrix/pkg"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n",
			dictmatrix.Version, dictmatrix.Build)
		os.Exit(0)
	}
}

// metaFlags are the dictionary settings an import job can override.
type metaFlags struct {
	apiKey   string
	dictID   string
	release  string
	language string
	genres   []string
}

func (f *metaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.apiKey, "api-key", "k", "",
		"access key of the new dictionary (required)")
	cmd.Flags().StringVarP(&f.dictID, "dict-id", "d", "",
		"replace the dictionary with this id")
	cmd.Flags().StringVarP(&f.release, "release", "r", "",
		"release policy: PUBLIC, NONCOMMERCIAL, RESEARCH or PRIVATE")
	cmd.Flags().StringVarP(&f.language, "language", "l", "",
		"source language of the dictionary")
	cmd.Flags().StringSliceVarP(&f.genres, "genre", "g", nil,
		"genre of the dictionary, can be repeated")
}

func (f *metaFlags) meta() jobs.ImportMeta {
	res := jobs.ImportMeta{
		Release:        model.ReleasePolicy(strings.ToUpper(f.release)),
		SourceLanguage: f.language,
	}
	for _, g := range f.genres {
		res.Genre = append(res.Genre, model.Genre(g))
	}
	return res
}
