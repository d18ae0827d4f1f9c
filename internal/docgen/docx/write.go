package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Write assembles the OPC package and streams it to w.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(d.renderContentTypesXML())},
		{"_rels/.rels", []byte(d.renderRootRelsXML())},
		{"word/document.xml", []byte(d.renderDocumentXML())},
		{"word/_rels/document.xml.rels", []byte(d.renderDocumentRelsXML())},
		{"word/styles.xml", []byte(d.renderStylesXML())},
	}
	for i, img := range d.images {
		parts = append(parts, struct {
			name string
			data []byte
		}{fmt.Sprintf("word/media/image%d.%s", i+1, img.ext), img.data})
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("docx: create part %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("docx: write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: finalize package: %w", err)
	}
	return nil
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
