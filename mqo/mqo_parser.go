package mqo

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/binzume/mocapgeom/geom"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Parser for mqo file.
type Parser struct {
	name string
	r    io.Reader
	s    scanner.Scanner
	err  error
}

// NewParser returns new parser. path is used in error messages.
func NewParser(r io.Reader, path string) *Parser {
	return &Parser{name: path, r: r}
}

func Parse(r io.Reader, path string) (*Document, error) {
	return NewParser(r, path).Parse()
}

func (p *Parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf("mqo: %s:%d: %s", p.name, p.s.Pos().Line, fmt.Sprintf(format, args...))
	}
}

func (p *Parser) readFloat() float32 {
	tok := p.s.Scan()
	var s float32 = 1
	if p.s.TokenText() == "-" {
		tok = p.s.Scan()
		s = -1
	}
	if tok != scanner.Int && tok != scanner.Float {
		p.fail("invalid number %q", p.s.TokenText())
		return 0
	}
	n, _ := strconv.ParseFloat(p.s.TokenText(), 32)
	return float32(n) * s
}

func (p *Parser) readInt() int {
	tok := p.s.Scan()
	if tok != scanner.Int {
		p.fail("invalid integer %q", p.s.TokenText())
		return 0
	}
	n, _ := strconv.Atoi(p.s.TokenText())
	return n
}

func (p *Parser) readStr() string {
	p.s.Scan()
	return strings.Trim(p.s.TokenText(), "\"")
}

func (p *Parser) skip(t string) {
	p.s.Scan()
	if p.s.TokenText() != t {
		p.fail("unexpected token %q, expected %q", p.s.TokenText(), t)
	}
}

func (p *Parser) procAttrs(handlers map[string]func(), name string) {
	line := p.s.Pos().Line
	for tok := p.s.Scan(); line == p.s.Pos().Line && tok != scanner.EOF; tok = p.s.Scan() {
		if handler, ok := handlers[p.s.TokenText()]; ok {
			p.skip("(")
			handler()
			p.skip(")")
		} else {
			log.Printf("  skip %s %s\n", name, p.s.TokenText())
			p.skip("(")
			for tok := p.s.Scan(); line == p.s.Pos().Line && tok != scanner.EOF; tok = p.s.Scan() {
				if p.s.TokenText() == ")" {
					break
				}
			}
		}
		if p.s.Peek() == 0x0d || p.s.Peek() == 0x0a {
			break
		}
	}
}

func (p *Parser) skipBlock() {
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if p.s.TokenText() == "}" {
			return
		}
		if p.s.TokenText() == "{" {
			p.skipBlock()
		}
	}
}

func (p *Parser) procArray(init, elem func(n int)) {
	n := p.readInt()
	p.skip("{")
	if p.err != nil {
		return
	}
	init(n)
	for i := 0; i < n && p.err == nil; i++ {
		elem(i)
	}
	p.skip("}")
}

func (p *Parser) procObj(handlers map[string]func()) {
	p.skip("{")
	for tok := p.s.Scan(); tok != scanner.EOF && p.err == nil; tok = p.s.Scan() {
		if p.s.TokenText() == "}" {
			return
		}
		if p.s.TokenText() == "{" {
			p.skipBlock()
		}
		if handler, ok := handlers[p.s.TokenText()]; ok {
			handler()
		}
	}
	p.fail("unexpected EOF")
}

func (p *Parser) readMaterial() *Material {
	m := NewMaterial(p.readStr())
	p.procAttrs(map[string]func(){
		"col":   func() { m.Color = geom.Vector4{X: p.readFloat(), Y: p.readFloat(), Z: p.readFloat(), W: p.readFloat()} },
		"dif":   func() { m.Diffuse = p.readFloat() },
		"amb":   func() { m.Ambient = p.readFloat() },
		"emi":   func() { m.Emission = p.readFloat() },
		"spc":   func() { m.Specular = p.readFloat() },
		"power": func() { m.Power = p.readFloat() },
	}, "Material "+m.Name)
	return m
}

func (p *Parser) readFace(o *Object, i int) *Face {
	var f Face
	vn := p.readInt()
	p.procAttrs(map[string]func(){
		"V": func() {
			f.Verts = make([]int, vn)
			for i := 0; i < vn; i++ {
				f.Verts[i] = p.readInt()
			}
		},
		"M": func() { f.Material = p.readInt() },
		"UV": func() {
			f.UVs = make([]geom.Vector2, vn)
			for i := 0; i < vn; i++ {
				f.UVs[i] = geom.Vector2{X: p.readFloat(), Y: p.readFloat()}
			}
		},
	}, fmt.Sprintf("Object %v F%v", o.Name, i))
	return &f
}

func (p *Parser) readObject() *Object {
	o := NewObject(p.readStr())

	p.procObj(map[string]func(){
		"depth":   func() { o.Depth = p.readInt() },
		"visible": func() { o.Visible = p.readInt() > 0 },
		"locking": func() { o.Locked = p.readInt() > 0 },
		"shading": func() { o.Shading = p.readInt() },
		"facet":   func() { o.Facet = p.readFloat() },
		"vertex": func() {
			p.procArray(func(n int) {
				o.Vertexes = make([]*geom.Vector3, n)
			}, func(i int) {
				o.Vertexes[i] = &geom.Vector3{X: p.readFloat(), Y: p.readFloat(), Z: p.readFloat()}
			})
		},
		"face": func() {
			p.procArray(func(n int) {
				o.Faces = make([]*Face, n)
			}, func(i int) {
				o.Faces[i] = p.readFace(o, i)
			})
		},
	})
	return o
}

// detectCodePage wraps the reader with a Shift_JIS decoder unless the header declares utf8.
func (p *Parser) detectCodePage() {
	buf := make([]byte, 128)
	n, _ := io.ReadFull(p.r, buf)
	p.r = io.MultiReader(bytes.NewReader(buf[:n]), p.r)
	if matched, _ := regexp.Match(`CodePage\s+utf8`, buf[:n]); !matched {
		p.r = transform.NewReader(p.r, japanese.ShiftJIS.NewDecoder())
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.detectCodePage()
	p.s.Init(p.r)
	p.s.Filename = p.name
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail("%s", msg)
	}

	tok := p.s.Scan()
	if tok != scanner.Ident || p.s.TokenText() != "Metasequoia" {
		return nil, fmt.Errorf("mqo: %s: not a Metasequoia document", p.name)
	}

	doc := NewDocument()
loop:
	for tok := p.s.Scan(); tok != scanner.EOF && p.err == nil; tok = p.s.Scan() {
		if tok != scanner.Ident {
			continue
		}
		switch p.s.TokenText() {
		case "Material":
			p.procArray(func(n int) {}, func(i int) {
				doc.Materials = append(doc.Materials, p.readMaterial())
			})
		case "Object":
			doc.Objects = append(doc.Objects, p.readObject())
		case "Thumbnail", "MaterialEx2", "BackImage", "Blob":
			for tok := p.s.Scan(); tok != scanner.EOF && p.s.TokenText() != "{"; tok = p.s.Scan() {
			}
			p.skipBlock()
		case "Eof":
			break loop
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

// LoadMQOZ reads the first .mqo entry of a zip archive.
func LoadMQOZ(path string) (*Document, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	for _, f := range z.File {
		if strings.HasSuffix(f.Name, ".mqo") {
			r, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return NewParser(r, path+"/"+f.Name).Parse()
		}
	}
	return nil, os.ErrNotExist
}

func Load(path string) (*Document, error) {
	if strings.HasSuffix(path, ".mqoz") {
		return LoadMQOZ(path)
	}
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewParser(r, path).Parse()
}
