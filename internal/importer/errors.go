/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import "fmt"

// FormatError reports a spreadsheet that cannot be read as an attendance or
// survey export: wrong sheet count, unknown extension or a broken archive.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spreadsheet %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("spreadsheet %s: %s", e.Path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
