package codec

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
)

var naiscLine = regexp.MustCompile(
	`^<([^>]+)>\s+<([^>]+)>\s+<([^>]+)>\s*\.\s*#\s*(\S+)\s*$`,
)

var naiscPredicates = map[string]jobs.LinkType{
	"http://www.w3.org/2004/02/skos/core#exactMatch":   jobs.Exact,
	"http://www.w3.org/2004/02/skos/core#broadMatch":   jobs.Broader,
	"http://www.w3.org/2004/02/skos/core#narrowMatch":  jobs.Narrower,
	"http://www.w3.org/2004/02/skos/core#relatedMatch": jobs.Related,
	"http://www.w3.org/2004/02/skos/core#closeMatch":   jobs.Related,
}

// SenseIndex maps exported sense ids to ids of their entries.
func SenseIndex(ee []model.Entry) map[string]string {
	res := make(map[string]string)
	for i := range ee {
		for _, sid := range ee[i].SenseIDs() {
			res[sid] = ee[i].ID
		}
	}
	return res
}

// ParseNaiscOutput reads matches of senses printed by the linking
// executable, one per line:
//
//	<left#sense> <predicate> <right#sense> . # score
//
// Senses are attributed to entries with the sense index. Matches are
// grouped by pairs of entries in the order the pairs first appear. Blank
// lines and comments are ignored, any other unexpected line is an error.
func ParseNaiscOutput(r io.Reader, senseIndex map[string]string) ([]jobs.LinkResult, error) {
	res := []jobs.LinkResult{}
	groups := make(map[[2]string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var lineNum int
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := naiscLine.FindStringSubmatch(line)
		if m == nil {
			return nil, NaiscOutputError(lineNum, line, "unexpected format")
		}
		linkType, ok := naiscPredicates[m[2]]
		if !ok {
			return nil, NaiscOutputError(lineNum, line, "unknown predicate")
		}
		score, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return nil, NaiscOutputError(lineNum, line, "bad score")
		}

		left := strings.TrimPrefix(m[1], ExportBase)
		right := strings.TrimPrefix(m[3], ExportBase)
		leftEntry, ok := senseIndex[left]
		if !ok {
			return nil, NaiscOutputError(lineNum, line, "unknown sense "+left)
		}
		rightEntry, ok := senseIndex[right]
		if !ok {
			return nil, NaiscOutputError(lineNum, line, "unknown sense "+right)
		}

		key := [2]string{leftEntry, rightEntry}
		idx, ok := groups[key]
		if !ok {
			idx = len(res)
			groups[key] = idx
			res = append(res, jobs.LinkResult{
				SourceEntry: leftEntry,
				TargetEntry: rightEntry,
				Linking:     []jobs.SenseLink{},
			})
		}
		res[idx].Linking = append(res[idx].Linking, jobs.SenseLink{
			SourceSense: left,
			TargetSense: right,
			Type:        linkType,
			Score:       score,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, NaiscOutputError(lineNum, "", err.Error())
	}
	return res, nil
}
