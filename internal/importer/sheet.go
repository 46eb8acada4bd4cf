/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readSheet returns the cell texts of the single sheet in path.
// Rows may be ragged; cells beyond a row's length are empty.
func readSheet(path string) ([][]string, error) {
	var (
		sheets [][][]string
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ods":
		sheets, err = readODS(path)
	case ".xlsx", ".xlsm":
		sheets, err = readXLSX(path)
	default:
		return nil, &FormatError{Path: path, Reason: "unsupported file type " + ext}
	}
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "unreadable", Err: err}
	}
	if len(sheets) != 1 {
		return nil, &FormatError{Path: path, Reason: "file must contain exactly one sheet"}
	}
	return sheets[0], nil
}

func readXLSX(path string) ([][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var out [][][]string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rows)
	}
	return out, nil
}

// cell returns row[c], or "" when the row is too short.
func cell(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}
