/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package overlay

import (
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// layoutSchema is the JSON schema for the external layout format. Position
// bounds here mirror the model invariants; anything the schema rejects would
// otherwise be clamped or dropped silently during the session.
const layoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "text layout",
  "type": "object",
  "required": ["elements"],
  "properties": {
    "elements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "kind", "x", "y", "anchor", "style"],
        "properties": {
          "text": {"type": "string"},
          "kind": {"enum": ["headline", "subheadline", "cta", "body"]},
          "x": {"type": "number", "minimum": 0, "maximum": 100},
          "y": {"type": "number", "minimum": 0, "maximum": 100},
          "anchor": {"enum": ["left", "center", "right"]},
          "style": {
            "type": "object",
            "required": ["fontFamily", "fontSize", "fontWeight", "color"],
            "properties": {
              "fontFamily": {"type": "string"},
              "fontSize": {"type": "number", "exclusiveMinimum": 0},
              "fontWeight": {"type": "integer", "minimum": 100, "maximum": 900},
              "color": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}([0-9a-fA-F]{2})?$"},
              "letterSpacing": {"type": "number"},
              "lineHeight": {"type": "number"},
              "textTransform": {"type": "string"},
              "maxWidth": {"type": "number", "minimum": 0, "maximum": 100},
              "shadow": {"type": "string"},
              "background": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

// ErrInvalidLayout wraps all schema violations found in a layout document.
var ErrInvalidLayout = errors.New("invalid layout")

// ValidateLayout checks raw layout JSON against the embedded schema.
func ValidateLayout(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(layoutSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate layout: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidLayout, strings.Join(msgs, "; "))
}
