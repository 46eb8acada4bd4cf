/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the training folder: the data file (data.json)
// with its last-saved snapshot (data.json.old), the archived source
// spreadsheets, and the per-folder SQLite register at
// <folder>/.trainingdocs/index.sqlite that records issued certificates and imports.
// The register is derived state; deleting it loses only history.
package storage
