package threemf

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const (
	coreNamespace         = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	contentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"
	relsNamespace         = "http://schemas.openxmlformats.org/package/2006/relationships"
	modelRelationshipType = "http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"

	relsContentType  = "application/vnd.openxmlformats-package.relationships+xml"
	modelContentType = "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"

	// Unit is the length unit declared for all coordinates.
	Unit = "millimeter"
)

type contentTypes struct {
	XMLName  xml.Name             `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults []contentTypeDefault `xml:"Default"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName       xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	Target string `xml:"Target,attr"`
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
}

func marshalPart(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// ContentTypes returns the [Content_Types].xml part
func ContentTypes() ([]byte, error) {
	return marshalPart(contentTypes{
		Defaults: []contentTypeDefault{
			{Extension: "rels", ContentType: relsContentType},
			{Extension: "model", ContentType: modelContentType},
		},
	})
}

// Relationships returns the _rels/.rels part pointing at the model part
func Relationships() ([]byte, error) {
	return marshalPart(relationships{
		Relationships: []relationship{
			{Target: "/" + ModelPath, ID: "rel0", Type: modelRelationshipType},
		},
	})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (t *tokenWriter) start(name string, attrs ...xml.Attr) {
	t.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (t *tokenWriter) end(name string) {
	t.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (t *tokenWriter) empty(name string, attrs ...xml.Attr) {
	t.start(name, attrs...)
	t.end(name)
}

func (t *tokenWriter) token(tok xml.Token) {
	if t.err != nil {
		return
	}
	t.err = t.enc.EncodeToken(tok)
}

// EncodeModel writes the 3D/3dmodel.model part. Object ids start at 1 and
// follow the mesh order.
func (d *Document) EncodeModel(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, xml.Header); err != nil {
		return fmt.Errorf("failed to write model header: %w", err)
	}

	t := &tokenWriter{enc: xml.NewEncoder(bw)}
	t.token(xml.StartElement{
		Name: xml.Name{Space: coreNamespace, Local: "model"},
		Attr: []xml.Attr{attr("unit", Unit)},
	})

	t.start("resources")
	for i, mesh := range d.Meshes {
		objectAttrs := []xml.Attr{attr("id", strconv.Itoa(i+1)), attr("type", "model")}
		if mesh.Name != "" {
			objectAttrs = append(objectAttrs, attr("name", mesh.Name))
		}
		t.start("object", objectAttrs...)
		t.start("mesh")

		t.start("vertices")
		for _, v := range mesh.Vertices {
			t.empty("vertex", attr("x", formatNumber(v.X)), attr("y", formatNumber(v.Y)), attr("z", formatNumber(v.Z)))
		}
		t.end("vertices")

		t.start("triangles")
		for _, tri := range mesh.Triangles {
			t.empty("triangle", attr("v1", strconv.Itoa(tri[0])), attr("v2", strconv.Itoa(tri[1])), attr("v3", strconv.Itoa(tri[2])))
		}
		t.end("triangles")

		t.end("mesh")
		t.end("object")
	}
	t.end("resources")

	t.start("build")
	for i := range d.Meshes {
		t.empty("item", attr("objectid", strconv.Itoa(i+1)))
	}
	t.end("build")

	t.token(xml.EndElement{Name: xml.Name{Space: coreNamespace, Local: "model"}})
	if t.err == nil {
		t.err = t.enc.Flush()
	}
	if t.err != nil {
		return fmt.Errorf("failed to encode model: %w", t.err)
	}
	return bw.Flush()
}
