package bvh

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/binzume/mocapgeom/geom"
	"golang.org/x/text/encoding/japanese"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Parser for bvh file.
type Parser struct {
	// ShiftJIS decodes joint names from Shift_JIS. Input with a BOM is always
	// decoded as UTF-8/UTF-16.
	ShiftJIS bool
	// Filename is reported in parse errors.
	Filename string

	r        io.Reader
	s        scanner.Scanner
	channels int
	scanErr  string
	errLine  int
}

// NewParser returns new parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Parse reads a bvh document from r.
func Parse(r io.Reader) (*Document, error) {
	return NewParser(r).Parse()
}

func Load(path string) (*Document, error) {
	return load(path, false)
}

// LoadShiftJIS reads a bvh file with Shift_JIS joint names.
func LoadShiftJIS(path string) (*Document, error) {
	return load(path, true)
}

func load(path string, shiftJIS bool) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	p := NewParser(r)
	p.ShiftJIS = shiftJIS
	p.Filename = path
	return p.Parse()
}

func isIdentRune(ch rune, i int) bool {
	return ch == '_' || unicode.IsLetter(ch) || (i > 0 && (unicode.IsDigit(ch) || ch == '.' || ch == '-'))
}

func (p *Parser) init() {
	var fallback transform.Transformer = transform.Nop
	if p.ShiftJIS {
		fallback = japanese.ShiftJIS.NewDecoder()
	}
	p.s.Init(transform.NewReader(p.r, textunicode.BOMOverride(fallback)))
	p.s.Filename = p.Filename
	p.s.Mode = scanner.ScanIdents | scanner.ScanFloats
	p.s.IsIdentRune = isIdentRune
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.scanErr == "" {
			p.scanErr = msg
			p.errLine = s.Pos().Line
		}
	}
	p.channels = 0
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{File: p.Filename, Line: p.s.Position.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) next() (rune, string) {
	tok := p.s.Scan()
	return tok, p.s.TokenText()
}

// scanNumber scans the next token. text/scanner reads "09" as a bad octal
// literal; such an error is dropped when the token is a valid decimal.
func (p *Parser) scanNumber() rune {
	prevErr := p.scanErr
	tok := p.s.Scan()
	if p.scanErr != prevErr && (tok == scanner.Int || tok == scanner.Float) {
		if _, err := strconv.ParseFloat(p.s.TokenText(), 64); err == nil {
			p.scanErr = prevErr
		}
	}
	return tok
}

func (p *Parser) expect(word string) error {
	tok, text := p.next()
	if tok == scanner.EOF {
		return p.errorf("unexpected EOF, expected %q", word)
	}
	if text != word {
		return p.errorf("unexpected token %q, expected %q", text, word)
	}
	return nil
}

// readName reads an identifier. Namespaced names like "mixamorig:Hips" are joined.
func (p *Parser) readName() (string, error) {
	tok, text := p.next()
	if tok != scanner.Ident && tok != scanner.Int {
		return "", p.errorf("expected name, got %q", text)
	}
	name := text
	for p.s.Peek() == ':' {
		p.s.Scan()
		name += ":"
		if tok, text = p.next(); tok != scanner.Ident && tok != scanner.Int {
			return "", p.errorf("invalid name %q", name+text)
		}
		name += text
	}
	return name, nil
}

// readNumber returns the value and the line it started on.
// It returns a bare io.EOF at the end of input.
func (p *Parser) readNumber() (float64, int, error) {
	tok := p.scanNumber()
	line := p.s.Position.Line
	if tok == scanner.EOF {
		return 0, line, io.EOF
	}
	var sign float64 = 1
	if tok == '-' || tok == '+' {
		if tok == '-' {
			sign = -1
		}
		tok = p.scanNumber()
	}
	if tok != scanner.Int && tok != scanner.Float {
		return 0, line, p.errorf("expected number, got %q", p.s.TokenText())
	}
	n, err := strconv.ParseFloat(p.s.TokenText(), 64)
	if err != nil {
		return 0, line, p.errorf("invalid number %q", p.s.TokenText())
	}
	return n * sign, line, nil
}

func (p *Parser) readFloat() (float32, error) {
	v, _, err := p.readNumber()
	if err == io.EOF {
		return 0, p.errorf("unexpected EOF, expected number")
	}
	return float32(v), err
}

func (p *Parser) readInt() (int, error) {
	tok := p.scanNumber()
	text := p.s.TokenText()
	if tok != scanner.Int {
		return 0, p.errorf("expected integer, got %q", text)
	}
	n, err := strconv.ParseInt(text, 10, 0)
	if err != nil {
		return 0, p.errorf("invalid integer %q", text)
	}
	return int(n), nil
}

func (p *Parser) readVector3() (geom.Vector3, error) {
	var v geom.Vector3
	var err error
	if v.X, err = p.readFloat(); err != nil {
		return v, err
	}
	if v.Y, err = p.readFloat(); err != nil {
		return v, err
	}
	v.Z, err = p.readFloat()
	return v, err
}

func parseChannelLabel(label string) (geom.Axis, bool, bool) {
	if len(label) < 2 {
		return 0, false, false
	}
	var axis geom.Axis
	switch label[0] {
	case 'X', 'x':
		axis = geom.AxisX
	case 'Y', 'y':
		axis = geom.AxisY
	case 'Z', 'z':
		axis = geom.AxisZ
	default:
		return 0, false, false
	}
	switch strings.ToLower(label[1:]) {
	case "position":
		return axis, false, true
	case "rotation":
		return axis, true, true
	}
	return 0, false, false
}

func (p *Parser) readChannels(j *Joint) error {
	n, err := p.readInt()
	if err != nil {
		return err
	}
	if n <= 0 {
		return p.errorf("joint %q: invalid channel count %d", j.Name, n)
	}
	var rotations, positions int
	for i := 0; i < n; i++ {
		tok, label := p.next()
		if tok == scanner.EOF {
			return p.errorf("joint %q: unexpected EOF in CHANNELS", j.Name)
		}
		axis, rotation, ok := parseChannelLabel(label)
		if !ok {
			return p.errorf("joint %q: unknown channel %q (declared %d, got %d)", j.Name, label, n, i)
		}
		slots := &j.PositionChannels
		if rotation {
			slots = &j.RotationChannels
		}
		if slots[axis] != NoChannel {
			return p.errorf("joint %q: duplicate channel %q", j.Name, label)
		}
		slots[axis] = p.channels
		p.channels++
		if rotation {
			j.RotationOrder[rotations] = axis
			rotations++
		} else {
			positions++
		}
	}
	if rotations != 3 {
		return p.errorf("joint %q: expected 3 rotation channels, got %d", j.Name, rotations)
	}
	if positions != 0 && positions != 3 {
		return p.errorf("joint %q: expected 0 or 3 position channels, got %d", j.Name, positions)
	}
	return nil
}

func (p *Parser) readEndSite(parent *Joint) (*Joint, error) {
	j := newJoint(parent.Name+"_end", parent)
	j.EndSite = true
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	if err := p.expect("OFFSET"); err != nil {
		return nil, err
	}
	offset, err := p.readVector3()
	if err != nil {
		return nil, err
	}
	j.Offset = offset
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return j, nil
}

func (p *Parser) readJoint(parent *Joint) (*Joint, error) {
	name, err := p.readName()
	if err != nil {
		return nil, err
	}
	j := newJoint(name, parent)
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	hasOffset, hasChannels := false, false
	for {
		tok, text := p.next()
		switch {
		case tok == scanner.EOF:
			return nil, p.errorf("joint %q: unexpected EOF, missing \"}\"", name)
		case text == "}":
			if !hasOffset {
				return nil, p.errorf("joint %q: missing OFFSET", name)
			}
			if !hasChannels {
				return nil, p.errorf("joint %q: missing CHANNELS", name)
			}
			return j, nil
		case text == "OFFSET":
			if j.Offset, err = p.readVector3(); err != nil {
				return nil, err
			}
			hasOffset = true
		case text == "CHANNELS":
			if hasChannels {
				return nil, p.errorf("joint %q: CHANNELS declared twice", name)
			}
			if err := p.readChannels(j); err != nil {
				return nil, err
			}
			hasChannels = true
		case text == "JOINT":
			child, err := p.readJoint(j)
			if err != nil {
				return nil, err
			}
			j.Children = append(j.Children, child)
		case text == "End":
			if err := p.expect("Site"); err != nil {
				return nil, err
			}
			child, err := p.readEndSite(j)
			if err != nil {
				return nil, err
			}
			j.Children = append(j.Children, child)
		default:
			return nil, p.errorf("joint %q: unexpected token %q", name, text)
		}
	}
}

func (p *Parser) readMotion(doc *Document) error {
	if err := p.expect("MOTION"); err != nil {
		return err
	}
	if err := p.expect("Frames"); err != nil {
		return err
	}
	if err := p.expect(":"); err != nil {
		return err
	}
	frames, err := p.readInt()
	if err != nil {
		return err
	}
	if frames < 0 {
		return p.errorf("invalid frame count %d", frames)
	}
	for _, w := range []string{"Frame", "Time", ":"} {
		if err := p.expect(w); err != nil {
			return err
		}
	}
	frameTime, _, err := p.readNumber()
	if err == io.EOF {
		return p.errorf("unexpected EOF, expected frame time")
	} else if err != nil {
		return err
	}
	doc.FrameTime = frameTime
	if doc.FrameTime <= 0 {
		return p.errorf("invalid frame time %v", doc.FrameTime)
	}

	doc.Frames = make([][]float32, frames)
	prevLine := p.s.Position.Line
	for f := 0; f < frames; f++ {
		row := make([]float32, doc.ChannelCount)
		rowLine := -1
		for c := range row {
			v, line, err := p.readNumber()
			if err == io.EOF {
				if c == 0 {
					return p.errorf("expected %d frames, got %d", frames, f)
				}
				return p.errorf("frame %d: expected %d values, got %d", f, doc.ChannelCount, c)
			} else if err != nil {
				return err
			}
			if c == 0 {
				if line == prevLine && f == 0 {
					return p.errorf("frame data must start on a new line")
				} else if line == prevLine {
					return p.errorf("frame %d: too many values, expected %d", f-1, doc.ChannelCount)
				}
				rowLine = line
			} else if line != rowLine {
				return p.errorf("frame %d: expected %d values, got %d", f, doc.ChannelCount, c)
			}
			row[c] = float32(v)
		}
		doc.Frames[f] = row
		prevLine = rowLine
	}
	if tok := p.s.Scan(); tok != scanner.EOF {
		if p.s.Position.Line == prevLine {
			return p.errorf("frame %d: too many values, expected %d", frames-1, doc.ChannelCount)
		}
		return p.errorf("unexpected data after %d frames: %q", frames, p.s.TokenText())
	}
	return nil
}

// Parse reads the hierarchy and motion sections.
func (p *Parser) Parse() (*Document, error) {
	p.init()

	if err := p.expect("HIERARCHY"); err != nil {
		return nil, err
	}
	if err := p.expect("ROOT"); err != nil {
		return nil, err
	}
	root, err := p.readJoint(nil)
	if err != nil {
		return nil, err
	}
	if !root.HasPosition() {
		return nil, p.errorf("root joint %q has no position channels", root.Name)
	}

	doc := &Document{Root: root, ChannelCount: p.channels}
	if err := p.readMotion(doc); err != nil {
		return nil, err
	}
	if p.scanErr != "" {
		return nil, &ParseError{File: p.Filename, Line: p.errLine, Msg: p.scanErr}
	}
	return doc, nil
}
