// Package wkt parses and formats the nested-keyword text grammar for
// coordinate reference systems, in its four dialects: the two WKT2
// generations (2015 and 2019) and the two legacy WKT1 vendor dialects
// (GDAL and ESRI).
package wkt

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/geodetic-io/georef/geod"
)

type lexerStream struct {
	source   []rune
	position int
	length   int
}

func newLexerStream(source string) *lexerStream {
	ret := &lexerStream{}
	ret.source = []rune(source)
	ret.length = len(ret.source)
	return ret
}

func (ls *lexerStream) readCharacter() rune {
	if ls.position >= ls.length {
		return 0
	}
	r := ls.source[ls.position]
	ls.position++
	return r
}

func (ls *lexerStream) rewind(amount int) {
	ls.position -= amount
	if ls.position < 0 {
		ls.position = 0
	}
}

func (ls *lexerStream) canRead() bool {
	return ls.position < ls.length
}

func (ls *lexerStream) skipSpace() {
	for ls.canRead() && unicode.IsSpace(ls.source[ls.position]) {
		ls.position++
	}
}

// node is one KEYWORD[value, value, ...] construct. Values keep their
// lexical order; children are nested nodes.
type node struct {
	keyword string
	values  []nodeValue
	pos     int
}

type valueKind int

const (
	valString valueKind = iota
	valNumber
	valKeywordLiteral // bare word, e.g. the axis direction "north"
	valNode
)

type nodeValue struct {
	kind  valueKind
	str   string
	num   float64
	child *node
	pos   int
}

// parseNodeTree reads one complete KEYWORD[...] tree from the stream.
func parseNodeTree(ls *lexerStream) (*node, error) {
	ls.skipSpace()
	start := ls.position
	keyword := readKeyword(ls)
	if keyword == "" {
		return nil, geod.NewParseError(start, "expected a keyword")
	}
	n := &node{keyword: strings.ToUpper(keyword), pos: start}

	ls.skipSpace()
	open := ls.readCharacter()
	if open != '[' && open != '(' {
		// bare keyword without a value list, e.g. CS[Cartesian,2] axis
		// direction tokens are handled as values, not here
		ls.rewind(1)
		return nil, geod.NewParseError(ls.position, "expected '[' after keyword %q", keyword)
	}
	closing := ']'
	if open == '(' {
		closing = ')'
	}

	for {
		ls.skipSpace()
		if !ls.canRead() {
			return nil, geod.NewParseError(ls.position, "unexpected end of text inside %s", n.keyword)
		}
		c := ls.source[ls.position]
		switch {
		case c == '"':
			v, err := readQuotedString(ls)
			if err != nil {
				return nil, err
			}
			n.values = append(n.values, v)
		case c == '-' || c == '+' || c == '.' || unicode.IsDigit(c):
			v, err := readNumber(ls)
			if err != nil {
				return nil, err
			}
			n.values = append(n.values, v)
		case unicode.IsLetter(c):
			pos := ls.position
			word := readKeyword(ls)
			ls.skipSpace()
			if ls.canRead() && (ls.source[ls.position] == '[' || ls.source[ls.position] == '(') {
				ls.position = pos
				child, err := parseNodeTree(ls)
				if err != nil {
					return nil, err
				}
				n.values = append(n.values, nodeValue{kind: valNode, child: child, pos: pos})
			} else {
				n.values = append(n.values, nodeValue{kind: valKeywordLiteral, str: word, pos: pos})
			}
		default:
			return nil, geod.NewParseError(ls.position, "unexpected character %q inside %s", string(c), n.keyword)
		}

		ls.skipSpace()
		sep := ls.readCharacter()
		if sep == ',' {
			continue
		}
		if sep == rune(closing) || sep == ']' || sep == ')' {
			return n, nil
		}
		if sep == 0 {
			return nil, geod.NewParseError(ls.position, "unterminated %s", n.keyword)
		}
		return nil, geod.NewParseError(ls.position-1, "expected ',' or '%c' in %s, got %q", closing, n.keyword, string(sep))
	}
}

func readKeyword(ls *lexerStream) string {
	var sb strings.Builder
	for ls.canRead() {
		c := ls.source[ls.position]
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			sb.WriteRune(c)
			ls.position++
			continue
		}
		break
	}
	return sb.String()
}

func readQuotedString(ls *lexerStream) (nodeValue, error) {
	pos := ls.position
	ls.readCharacter() // opening quote
	var sb strings.Builder
	for {
		if !ls.canRead() {
			return nodeValue{}, geod.NewParseError(pos, "unterminated string")
		}
		c := ls.readCharacter()
		if c == '"' {
			// doubled quote is an escaped quote
			if ls.canRead() && ls.source[ls.position] == '"' {
				ls.readCharacter()
				sb.WriteRune('"')
				continue
			}
			return nodeValue{kind: valString, str: sb.String(), pos: pos}, nil
		}
		sb.WriteRune(c)
	}
}

func readNumber(ls *lexerStream) (nodeValue, error) {
	pos := ls.position
	var sb strings.Builder
	for ls.canRead() {
		c := ls.source[ls.position]
		if unicode.IsDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			sb.WriteRune(c)
			ls.position++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return nodeValue{}, geod.NewParseError(pos, "malformed number %q", sb.String())
	}
	return nodeValue{kind: valNumber, num: f, str: sb.String(), pos: pos}, nil
}

// accessors used by the builder

func (n *node) stringAt(i int) (string, bool) {
	if i < len(n.values) && n.values[i].kind == valString {
		return n.values[i].str, true
	}
	return "", false
}

func (n *node) numberAt(i int) (float64, bool) {
	if i < len(n.values) && n.values[i].kind == valNumber {
		return n.values[i].num, true
	}
	return 0, false
}

// child returns the first nested node with one of the given keywords.
func (n *node) child(keywords ...string) *node {
	for _, v := range n.values {
		if v.kind != valNode {
			continue
		}
		for _, kw := range keywords {
			if v.child.keyword == kw {
				return v.child
			}
		}
	}
	return nil
}

// children returns every nested node with one of the given keywords, in
// order.
func (n *node) children(keywords ...string) []*node {
	var out []*node
	for _, v := range n.values {
		if v.kind != valNode {
			continue
		}
		for _, kw := range keywords {
			if v.child.keyword == kw {
				out = append(out, v.child)
				break
			}
		}
	}
	return out
}
