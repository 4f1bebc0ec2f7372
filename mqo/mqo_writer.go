package mqo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteMQO writes doc in the utf8 text format.
func WriteMQO(doc *Document, ww io.Writer) error {
	w := bufio.NewWriter(ww)
	w.WriteString("Metasequoia Document\n")
	w.WriteString("Format Text Ver 1.1\n")
	w.WriteString("CodePage utf8\n")
	w.WriteString("\n")

	if len(doc.Materials) > 0 {
		fmt.Fprintf(w, "Material %v {\n", len(doc.Materials))
		for _, mat := range doc.Materials {
			fmt.Fprintf(w, "\t\"%v\" col(%.3f %.3f %.3f %.3f) dif(%.3f) amb(%.3f) emi(%.3f) spc(%.3f) power(%.2f)\n",
				mat.Name, mat.Color.X, mat.Color.Y, mat.Color.Z, mat.Color.W,
				mat.Diffuse, mat.Ambient, mat.Emission, mat.Specular, mat.Power)
		}
		w.WriteString("}\n")
	}

	for _, obj := range doc.Objects {
		fmt.Fprintf(w, "Object \"%v\" {\n", obj.Name)
		fmt.Fprintf(w, "\tdepth %d\n", obj.Depth)
		fmt.Fprintf(w, "\tlocking %v\n", boolToInt(obj.Locked))
		if !obj.Visible {
			fmt.Fprint(w, "\tvisible 0\n")
		}
		fmt.Fprintf(w, "\tshading %v\n", obj.Shading)
		fmt.Fprintf(w, "\tfacet %v\n", obj.Facet)

		fmt.Fprintf(w, "\tvertex %v {\n", len(obj.Vertexes))
		for _, v := range obj.Vertexes {
			fmt.Fprintf(w, "\t\t%v %v %v\n", v.X, v.Y, v.Z)
		}
		w.WriteString("\t}\n")

		fmt.Fprintf(w, "\tface %v {\n", len(obj.Faces))
		for _, f := range obj.Faces {
			fmt.Fprintf(w, "\t\t%v V(%v) M(%v)", len(f.Verts), strings.Trim(fmt.Sprint(f.Verts), "[]"), f.Material)
			if len(f.UVs) > 0 {
				w.WriteString(" UV(")
				for i, uv := range f.UVs {
					if i != 0 {
						fmt.Fprint(w, " ")
					}
					fmt.Fprintf(w, "%v %v", uv.X, uv.Y)
				}
				w.WriteString(")")
			}
			w.WriteString("\n")
		}
		w.WriteString("\t}\n")

		w.WriteString("}\n")
	}

	w.WriteString("Eof\n")
	return w.Flush()
}

func Save(doc *Document, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return WriteMQO(doc, w)
}
