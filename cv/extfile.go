package cv

import (
	"bufio"
	"io"
	"strings"

	"github.com/inab/BP-Model/errs"
)

// ExtFile reads the line-oriented external CV file format (spec §6.4):
// UTF-8, '#' marks metadata lines ("#<name> <value>"), blank lines are
// ignored, and every other line holds one term as
// "primary[|alt1|alt2...]<TAB>name[<TAB>parent1,parent2,...]". A metadata
// line "#alias" marks the following term line as an alias term, whose
// parent list is then reinterpreted as a union-of list.
//
// Every byte read, including line terminators, is written to digest in
// the order encountered — this is how the cv-stream content digest
// (§6.3) is assembled, so digest must be the same writer across every
// external CV file read during a single model load.
//
// This mirrors the Stream/Iter scanning shape used for model data
// streams elsewhere in the reference material, adapted from
// lexer-token scanning to line scanning because the external CV format
// is our own delimited text, not an expression-language literal.
func ExtFile(name string, r io.Reader, digest io.Writer) (*CV, error) {
	c := NewCV(name)
	tee := io.TeeReader(r, digest)
	br := bufio.NewReader(tee)
	pendingAlias := false
	for {
		line, err := br.ReadString('\n')
		if len(line) == 0 && err != nil {
			if err == io.EOF {
				break
			}
			return nil, errs.Wrap(errs.IOError, err, "cv %q: read external file", name)
		}
		trimmed := strings.TrimRight(line, "\r\n")
		switch {
		case trimmed == "":
			// blank line, ignored beyond feeding the digest above
		case strings.HasPrefix(trimmed, "#"):
			meta := strings.TrimPrefix(trimmed, "#")
			fields := strings.SplitN(meta, " ", 2)
			switch fields[0] {
			case "alias":
				pendingAlias = true
				continue
			case "description":
				if len(fields) > 1 {
					c.Description = fields[1]
				}
			}
		default:
			t, terr := parseTermLine(trimmed, pendingAlias)
			if terr != nil {
				return nil, errs.Wrap(errs.IOError, terr, "cv %q: parse term line %q", name, trimmed)
			}
			pendingAlias = false
			if aerr := c.AddTerm(t); aerr != nil {
				return nil, aerr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.IOError, err, "cv %q: read external file", name)
		}
	}
	c.ExternalFile = name
	return c, nil
}

func parseTermLine(line string, alias bool) (*Term, error) {
	cols := strings.Split(line, "\t")
	keys := strings.Split(cols[0], "|")
	t := &Term{Key: keys[0], Alt: keys[1:], Alias: alias}
	if len(cols) > 1 {
		t.Name = cols[1]
	}
	if len(cols) > 2 && cols[2] != "" {
		t.Parents = strings.Split(cols[2], ",")
	}
	return t, nil
}
