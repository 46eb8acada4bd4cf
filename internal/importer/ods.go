/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// OpenDocument namespaces used by content.xml.
const (
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
)

// maxRepeat caps number-*-repeated expansion of non-empty cells and rows.
// Empty runs are never materialized unless followed by content.
const maxRepeat = 1024

var errNoContent = errors.New("content.xml not found")

// readODS returns the display text of every sheet in an OpenDocument spreadsheet.
func readODS(path string) ([][][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()
	for _, f := range zr.File {
		if f.Name != "content.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return parseODSContent(rc)
	}
	return nil, errNoContent
}

type odsParser struct {
	sheets [][][]string
	sheet  [][]string
	tables int

	row         []string
	rowRepeat   int
	emptyRows   int
	emptyCells  int
	cellRepeat  int
	inCell      bool
	text        strings.Builder
	paragraphs  int
	paraDepth   int
	annotations int
}

func parseODSContent(r io.Reader) ([][][]string, error) {
	dec := xml.NewDecoder(r)
	p := &odsParser{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.start(t)
		case xml.EndElement:
			p.end(t)
		case xml.CharData:
			if p.inCell && p.paraDepth > 0 && p.annotations == 0 {
				p.text.Write(t)
			}
		}
	}
	return p.sheets, nil
}

func (p *odsParser) start(t xml.StartElement) {
	switch t.Name.Space {
	case nsTable:
		switch t.Name.Local {
		case "table":
			if p.tables == 0 {
				p.sheet = nil
				p.emptyRows = 0
			}
			p.tables++
		case "table-row":
			p.row = nil
			p.emptyCells = 0
			p.rowRepeat = repeatAttr(t, "number-rows-repeated")
		case "table-cell", "covered-table-cell":
			p.inCell = true
			p.cellRepeat = repeatAttr(t, "number-columns-repeated")
			p.text.Reset()
			p.paragraphs = 0
		}
	case nsOffice:
		if t.Name.Local == "annotation" {
			p.annotations++
		}
	case nsText:
		if !p.inCell || p.annotations > 0 {
			return
		}
		switch t.Name.Local {
		case "p", "h":
			if p.paraDepth == 0 {
				if p.paragraphs > 0 {
					p.text.WriteByte('\n')
				}
				p.paragraphs++
			}
			p.paraDepth++
		case "s":
			p.text.WriteString(strings.Repeat(" ", repeatAttr(t, "c")))
		case "tab":
			p.text.WriteByte('\t')
		case "line-break":
			p.text.WriteByte('\n')
		}
	}
}

func (p *odsParser) end(t xml.EndElement) {
	switch t.Name.Space {
	case nsTable:
		switch t.Name.Local {
		case "table":
			p.tables--
			if p.tables == 0 {
				p.sheets = append(p.sheets, p.sheet)
			}
		case "table-row":
			p.endRow()
		case "table-cell", "covered-table-cell":
			p.endCell()
		}
	case nsOffice:
		if t.Name.Local == "annotation" && p.annotations > 0 {
			p.annotations--
		}
	case nsText:
		if (t.Name.Local == "p" || t.Name.Local == "h") && p.paraDepth > 0 && p.annotations == 0 {
			p.paraDepth--
		}
	}
}

func (p *odsParser) endCell() {
	p.inCell = false
	p.paraDepth = 0
	v := p.text.String()
	if v == "" {
		p.emptyCells += p.cellRepeat
		return
	}
	for ; p.emptyCells > 0; p.emptyCells-- {
		p.row = append(p.row, "")
	}
	for i := 0; i < min(p.cellRepeat, maxRepeat); i++ {
		p.row = append(p.row, v)
	}
}

func (p *odsParser) endRow() {
	if len(p.row) == 0 {
		p.emptyRows += p.rowRepeat
		return
	}
	for ; p.emptyRows > 0; p.emptyRows-- {
		p.sheet = append(p.sheet, nil)
	}
	for i := 0; i < min(p.rowRepeat, maxRepeat); i++ {
		p.sheet = append(p.sheet, append([]string(nil), p.row...))
	}
	p.row = nil
}

func repeatAttr(t xml.StartElement, local string) int {
	for _, a := range t.Attr {
		if a.Name.Local != local {
			continue
		}
		if n, err := strconv.Atoi(a.Value); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
