// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serializer writes rendered recipes and lint reports as JSON, YAML
// or tables, and reads JSON or YAML configuration files.
//
// # Formats
//
// JSON and YAML round-trip. Table output is write-only: values implementing
// Tabular render one row per entry under upper-cased column headers, and any
// other value is flattened into FIELD/VALUE pairs keyed by json tag names:
//
//	FIELD                 VALUE
//	-----                 -----
//	requirements.run.[0]  python 3.11*
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, rendered); err != nil {
//	    return err
//	}
//
// An empty path or a file that cannot be created falls back to stdout.
// Unknown formats fall back to JSON with a warning.
//
// # Reading
//
//	r, err := serializer.NewFileReaderAuto("recipekit.yaml")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	err = r.Deserialize(&cfg)
//
// The format is taken from the file extension (.json, .yaml, .yml) and
// defaults to YAML. Empty input leaves the target unchanged.
package serializer
