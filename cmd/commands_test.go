package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ontolexDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:ontolex="http://www.w3.org/ns/lemon/ontolex#"
         xmlns:lime="http://www.w3.org/ns/lemon/lime#"
         xmlns:skos="http://www.w3.org/2004/02/skos/core#"
         xmlns:dc="http://purl.org/dc/elements/1.1/"
         xmlns:lexinfo="http://www.lexinfo.net/ontology/3.0/lexinfo#">
  <lime:Lexicon rdf:about="#lexicon">
    <lime:language>en</lime:language>
    <dc:title>Pets</dc:title>
    <lime:entry>
      <ontolex:LexicalEntry rdf:about="#cat">
        <ontolex:canonicalForm><ontolex:Form>
          <ontolex:writtenRep>cat</ontolex:writtenRep>
        </ontolex:Form></ontolex:canonicalForm>
        <lexinfo:partOfSpeech rdf:resource="http://www.lexinfo.net/ontology/3.0/lexinfo#noun"/>
        <ontolex:sense><ontolex:LexicalSense>
          <skos:definition>a small feline</skos:definition>
        </ontolex:LexicalSense></ontolex:sense>
      </ontolex:LexicalEntry>
    </lime:entry>
  </lime:Lexicon>
</rdf:RDF>
`

// setHome points the commands to a fresh home directory with an SQLite
// database.
func setHome(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DICTMATRIX_DATABASE_DRIVER", "sqlite")
	t.Setenv("DICTMATRIX_LOG_DESTINATION", "file")
	return home
}

// writeDoc writes a small OntoLex document to a temporary file.
func writeDoc(t *testing.T) string {
	src := filepath.Join(t.TempDir(), "pets.rdf")
	require.NoError(t, os.WriteFile(src, []byte(ontolexDoc), 0644))
	return src
}

func run(t *testing.T, args ...string) error {
	cmd := getRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// TestImportExport runs an import and exports the new dictionary.
func TestImportExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping command run in short mode")
	}
	setHome(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "pets.rdf")
	require.NoError(t, os.WriteFile(src, []byte(ontolexDoc), 0644))

	require.NoError(t, run(t, "import", src, "-k", "key1", "-r", "PUBLIC"))

	// the original file is left alone
	_, err := os.Stat(src)
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.UploadDir())
	if err == nil {
		assert.Empty(t, entries, "staged copy should be removed")
	}

	ids := dictionaryIDs(t)
	require.Len(t, ids, 1)

	out := filepath.Join(dir, "pets.xml")
	require.NoError(t, run(t, "export", ids[0], "-o", out))
	bs, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "cat")
	assert.Contains(t, string(bs), "a small feline")

	require.NoError(t, run(t, "status", ids[0]))
}

func dictionaryIDs(t *testing.T) []string {
	a, err := openApp(t.Context())
	require.NoError(t, err)
	defer a.Close()
	ids, err := a.store.DictionaryIDs(t.Context(), "key1")
	require.NoError(t, err)
	return ids
}

func TestCommandErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping command run in short mode")
	}
	setHome(t)

	tests := []struct {
		msg  string
		args []string
		err  string
	}{
		{"no api key", []string{"import", "https://example.org/d.xml"}, ""},
		{"missing file", []string{"import", "/no/such/file.xml", "-k", "k"}, ""},
		{"bad release", []string{"import", "https://example.org/d.xml",
			"-k", "k", "-r", "FREE"}, ""},
		{"json needs entry", []string{"export", "d1", "-f", "json"}, "--entry"},
		{"bad format", []string{"export", "d1", "-f", "csv"}, "unknown format"},
		{"unknown job", []string{"status", "nope"}, ""},
		{"unknown worker kind", []string{"worker", "nope", "j1"}, "unknown job kind"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := run(t, tt.args...)
			require.Error(t, err)
			if tt.err != "" {
				assert.True(t, strings.Contains(err.Error(), tt.err), err.Error())
			}
		})
	}
}

func TestConfigCmd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping command run in short mode")
	}
	setHome(t)
	t.Setenv("DICTMATRIX_SERVER_PORT", "9123")

	require.NoError(t, run(t, "config"))
	assert.Equal(t, 9123, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
