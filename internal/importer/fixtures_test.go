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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeXLSX saves rows into a workbook with the given number of sheets.
func writeXLSX(t *testing.T, rows [][]any, sheets int) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}
	for i := 1; i < sheets; i++ {
		_, err := f.NewSheet(fmt.Sprintf("Extra%d", i))
		require.NoError(t, err)
	}
	path := filepath.Join(t.TempDir(), "lista.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// writeODS builds a minimal OpenDocument spreadsheet from table bodies.
func writeODS(t *testing.T, tables ...string) string {
	t.Helper()
	var body strings.Builder
	for i, tbl := range tables {
		fmt.Fprintf(&body, `<table:table table:name="Arkusz%d">%s</table:table>`, i+1, tbl)
	}
	content := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
<office:body><office:spreadsheet>` + body.String() + `</office:spreadsheet></office:body></office:document-content>`

	path := filepath.Join(t.TempDir(), "lista.ods")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	mt, err := zw.Create("mimetype")
	require.NoError(t, err)
	_, err = mt.Write([]byte("application/vnd.oasis.opendocument.spreadsheet"))
	require.NoError(t, err)
	cw, err := zw.Create("content.xml")
	require.NoError(t, err)
	_, err = cw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// odsRow renders one table-row; empty strings become empty cells.
func odsRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<table:table-row>")
	for _, c := range cells {
		if c == "" {
			b.WriteString("<table:table-cell/>")
			continue
		}
		fmt.Fprintf(&b, `<table:table-cell office:value-type="string"><text:p>%s</text:p></table:table-cell>`, c)
	}
	b.WriteString("</table:table-row>")
	return b.String()
}
