package article

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

const nbsp = '\u00a0'

func widontTarget(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.P:
		return true
	}
	return false
}

// widont joins the last two words of every heading and paragraph with a
// non-breaking space so a single word never wraps onto its own line. Text
// inside nested inline elements counts; the space may sit in a different
// text node than the final word.
func widont(src string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))

	var toks []html.Token
	var open []int // token index of each unclosed target start tag
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", xerrors.Wrap(err, "tokenize rendered html")
			}
			break
		}
		tok := z.Token()
		toks = append(toks, tok)

		switch tt {
		case html.StartTagToken:
			if widontTarget(tok.DataAtom) {
				open = append(open, len(toks)-1)
			}
		case html.EndTagToken:
			if widontTarget(tok.DataAtom) && len(open) > 0 {
				start := open[len(open)-1]
				open = open[:len(open)-1]
				joinLastWords(toks[start+1 : len(toks)-1])
			}
		}
	}

	var b strings.Builder
	b.Grow(len(src))
	raw := false
	for _, t := range toks {
		switch t.Type {
		case html.StartTagToken:
			raw = t.DataAtom == atom.Script || t.DataAtom == atom.Style
		case html.EndTagToken:
			raw = false
		case html.TextToken:
			if raw {
				b.WriteString(t.Data)
			} else {
				b.WriteString(html.EscapeString(t.Data))
			}
			continue
		}
		b.WriteString(t.String())
	}
	return b.String(), nil
}

// joinLastWords replaces the last space that precedes a word, scanning the
// text tokens in toks from the end.
func joinLastWords(toks []html.Token) {
	seenWord := false
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Type != html.TextToken {
			continue
		}
		data := toks[i].Data
		for j := len(data); j > 0; {
			r, size := utf8.DecodeLastRuneInString(data[:j])
			j -= size
			switch {
			case r == ' ':
				if seenWord {
					toks[i].Data = data[:j] + string(nbsp) + data[j+size:]
					return
				}
			case !unicode.IsSpace(r):
				seenWord = true
			}
		}
	}
}
