package pdfdoc

import (
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tsawler/pagesect/model"
)

// glyphWidthRatio estimates a glyph's advance as a fraction of the font size.
// Content streams carry no font metrics at this level, so fragment widths are
// approximate; they are good enough for reading-order sorting, which only
// needs relative positions.
const glyphWidthRatio = 0.5

// defaultFontSize is used when text is shown before any Tf operator.
const defaultFontSize = 10

// matrix is a PDF-style affine transform [a b c d e f].
type matrix [6]float64

func identity() matrix {
	return matrix{1, 0, 0, 1, 0, 0}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// multiply returns m x other (PDF row-vector convention).
func (m matrix) multiply(other matrix) matrix {
	return matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// rawFragment is a show-text result still in PDF user space (Y up, baseline
// coordinates).
type rawFragment struct {
	x, y     float64
	width    float64
	height   float64
	text     string
	fontSize float64
}

// extractFragments walks a page content stream and returns the text
// fragments in the top-down coordinate system of the given page height.
func extractFragments(data []byte, pageHeight float64) []model.Fragment {
	raw := parseContent(data)
	raw = mergeLineFragments(raw)

	var fragments []model.Fragment
	for i, rf := range raw {
		if rf.text == "" {
			continue
		}
		fragments = append(fragments, model.Fragment{
			Rect: model.Rect{
				Left:   rf.x,
				Top:    pageHeight - (rf.y + rf.height),
				Right:  rf.x + rf.width,
				Bottom: pageHeight - rf.y,
			},
			Text:        rf.text,
			SourceIndex: i,
		})
	}
	return fragments
}

// mergeLineFragments joins consecutive show operations that continue the same
// baseline, so a heading split across several Tj operators arrives as one
// fragment. A space is inserted when the horizontal gap suggests a word break.
func mergeLineFragments(raw []rawFragment) []rawFragment {
	if len(raw) <= 1 {
		return raw
	}

	merged := make([]rawFragment, 0, len(raw))
	cur := raw[0]

	for _, next := range raw[1:] {
		fs := cur.fontSize
		if fs <= 0 {
			fs = defaultFontSize
		}
		sameBaseline := math.Abs(next.y-cur.y) < 0.1
		gap := next.x - (cur.x + cur.width)

		if sameBaseline && gap > -fs && gap < fs {
			if gap > fs*0.25 {
				cur.text += " "
			}
			cur.text += next.text
			cur.width = next.x + next.width - cur.x
			if next.height > cur.height {
				cur.height = next.height
			}
			continue
		}

		merged = append(merged, cur)
		cur = next
	}

	return append(merged, cur)
}

// textState tracks the pieces of PDF text state the extractor needs.
type textState struct {
	tm       matrix // text matrix
	tlm      matrix // text line matrix
	leading  float64
	fontSize float64
}

// nextLine implements the Td operator: translate the line matrix and reset
// the text matrix to it.
func (st *textState) nextLine(tx, ty float64) {
	st.tlm = translation(tx, ty).multiply(st.tlm)
	st.tm = st.tlm
}

// contentParser is a minimal content stream tokenizer. It understands the
// text operators and skips everything else (paths, dictionaries, inline
// images). Graphics state transforms (cm) are not applied; positions are
// taken from the text matrix alone.
type contentParser struct {
	data []byte
	pos  int

	stack []any // float64, string (decoded), []any
	state textState
	out   []rawFragment
}

func parseContent(data []byte) []rawFragment {
	p := &contentParser{
		data:  data,
		state: textState{tm: identity(), tlm: identity()},
	}
	p.run()
	return p.out
}

func (p *contentParser) run() {
	for p.pos < len(p.data) {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return
		}

		c := p.data[p.pos]
		switch {
		case c == '(':
			p.push(p.readLiteralString())
		case c == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				p.skipDictionary()
			} else {
				p.push(p.readHexString())
			}
		case c == '[':
			p.pos++
			p.push(arrayMark{})
		case c == ']':
			p.pos++
			p.closeArray()
		case c == '/':
			p.pos++
			p.push(p.readToken()) // name operand, kept as a plain token
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			tok := p.readToken()
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				p.push(v)
			}
		default:
			p.operator(p.readToken())
		}
	}
}

// arrayMark is a stack sentinel for '['.
type arrayMark struct{}

func (p *contentParser) push(v any) {
	p.stack = append(p.stack, v)
}

func (p *contentParser) clear() {
	p.stack = p.stack[:0]
}

// popFloats returns the top n numeric operands in operand order. Missing or
// non-numeric operands come back as zero; malformed streams degrade to
// zero-positioned fragments rather than failing.
func (p *contentParser) popFloats(n int) []float64 {
	vals := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if len(p.stack) == 0 {
			break
		}
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if f, ok := top.(float64); ok {
			vals[i] = f
		}
	}
	return vals
}

func (p *contentParser) popString() string {
	if len(p.stack) == 0 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	s, _ := top.(string)
	return s
}

func (p *contentParser) closeArray() {
	var arr []any
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if _, ok := top.(arrayMark); ok {
			break
		}
		arr = append(arr, top)
	}
	// Restore operand order.
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	p.push(arr)
}

func (p *contentParser) operator(op string) {
	st := &p.state

	switch op {
	case "BT":
		st.tm = identity()
		st.tlm = identity()
	case "ET":
		// Text object closed; matrices stay until the next BT resets them.
	case "Tf":
		vals := p.popFloats(1)
		st.fontSize = vals[0]
	case "TL":
		st.leading = p.popFloats(1)[0]
	case "Td":
		vals := p.popFloats(2)
		st.nextLine(vals[0], vals[1])
	case "TD":
		vals := p.popFloats(2)
		st.leading = -vals[1]
		st.nextLine(vals[0], vals[1])
	case "Tm":
		vals := p.popFloats(6)
		st.tm = matrix{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}
		st.tlm = st.tm
	case "T*":
		st.nextLine(0, -st.leading)
	case "Tj":
		p.show(p.popString())
	case "'":
		s := p.popString()
		st.nextLine(0, -st.leading)
		p.show(s)
	case "\"":
		s := p.popString()
		p.popFloats(2) // word and character spacing, unused
		st.nextLine(0, -st.leading)
		p.show(s)
	case "TJ":
		p.showArray()
	case "BI":
		p.skipInlineImage()
	}

	p.clear()
}

// showArray handles the TJ operator: strings are shown, numbers adjust the
// horizontal position (thousandths of text space, negative moves right).
func (p *contentParser) showArray() {
	if len(p.stack) == 0 {
		return
	}
	arr, ok := p.stack[len(p.stack)-1].([]any)
	if !ok {
		return
	}

	for _, el := range arr {
		switch v := el.(type) {
		case string:
			p.show(v)
		case float64:
			fs := p.state.fontSize
			if fs <= 0 {
				fs = defaultFontSize
			}
			p.state.tm[4] -= v / 1000 * fs * p.state.tm[0]
		}
	}
}

// show emits a fragment for a show-text operand at the current text matrix
// position and advances the matrix by the estimated width.
func (p *contentParser) show(s string) {
	if s == "" {
		return
	}

	st := &p.state
	fs := st.fontSize
	if fs <= 0 {
		fs = defaultFontSize
	}

	width := math.Abs(float64(utf8.RuneCountInString(s)) * fs * glyphWidthRatio * st.tm[0])
	height := math.Abs(fs * st.tm[3])
	if height == 0 {
		height = fs
	}

	p.out = append(p.out, rawFragment{
		x:        st.tm[4],
		y:        st.tm[5],
		width:    width,
		height:   height,
		text:     s,
		fontSize: fs,
	})

	st.tm[4] += width
}

// Lexing helpers

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func (p *contentParser) skipSpaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) {
			p.pos++
			continue
		}
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		return
	}
}

func (p *contentParser) readToken() string {
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) && !isDelim(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		// Lone delimiter; consume it so the parser always advances.
		p.pos++
		return string(p.data[start : start+1])
	}
	return string(p.data[start:p.pos])
}

// readLiteralString decodes a (...) string with escapes, octal codes and
// balanced nested parentheses.
func (p *contentParser) readLiteralString() string {
	p.pos++ // consume '('
	var buf []byte
	depth := 1

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				return decodeText(buf)
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\n':
				// Line continuation, nothing emitted.
			case '\r':
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					code := int(e - '0')
					for i := 0; i < 2 && p.pos < len(p.data); i++ {
						d := p.data[p.pos]
						if d < '0' || d > '7' {
							break
						}
						code = code*8 + int(d-'0')
						p.pos++
					}
					buf = append(buf, byte(code))
				} else {
					buf = append(buf, e)
				}
			}
		case '(':
			depth++
			buf = append(buf, c)
		case ')':
			depth--
			if depth == 0 {
				return decodeText(buf)
			}
			buf = append(buf, c)
		default:
			buf = append(buf, c)
		}
	}
	return decodeText(buf)
}

// readHexString decodes a <...> string; an odd final digit is padded with 0.
func (p *contentParser) readHexString() string {
	p.pos++ // consume '<'
	var digits []byte

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
	}

	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	buf := make([]byte, len(digits)/2)
	for i := 0; i < len(buf); i++ {
		hi := hexVal(digits[2*i])
		lo := hexVal(digits[2*i+1])
		buf[i] = hi<<4 | lo
	}
	return decodeText(buf)
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// skipDictionary consumes a << ... >> dictionary, tracking nesting.
func (p *contentParser) skipDictionary() {
	depth := 0
	for p.pos < len(p.data) {
		if p.pos+1 < len(p.data) && p.data[p.pos] == '<' && p.data[p.pos+1] == '<' {
			depth++
			p.pos += 2
			continue
		}
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			depth--
			p.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		if p.data[p.pos] == '(' {
			p.readLiteralString()
			continue
		}
		p.pos++
	}
}

// skipInlineImage consumes BI ... ID <binary> EI.
func (p *contentParser) skipInlineImage() {
	for p.pos+1 < len(p.data) {
		if p.data[p.pos] == 'E' && p.data[p.pos+1] == 'I' &&
			(p.pos == 0 || isSpace(p.data[p.pos-1])) &&
			(p.pos+2 >= len(p.data) || isSpace(p.data[p.pos+2]) || isDelim(p.data[p.pos+2])) {
			p.pos += 2
			return
		}
		p.pos++
	}
	p.pos = len(p.data)
}

// decodeText converts raw PDF string bytes to UTF-8. UTF-16BE strings are
// recognized by their byte order mark; everything else is treated as a
// single-byte Latin-1 superset, which covers the standard encodings well
// enough for keyword matching.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}

	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
