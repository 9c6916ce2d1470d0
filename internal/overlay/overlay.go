/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package overlay defines the editable text-overlay data model and the
// adapters between the external layout format and the in-session collection.
package overlay

// Kind tags an overlay with its role in the composition. It is a closed set;
// both adapters handle every member exhaustively.
type Kind string

const (
	KindHeadline    Kind = "headline"
	KindSubheadline Kind = "subheadline"
	KindCTA         Kind = "cta"
	KindBody        Kind = "body"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHeadline, KindSubheadline, KindCTA, KindBody:
		return true
	}
	return false
}

// Align is the horizontal anchor of an overlay's text box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Transform bounds. Positions are percentages of the rendered base image's
// own bounding box; scale multiplies the base font size.
const (
	MinPos   = 0.0
	MaxPos   = 100.0
	MinScale = 0.5
	MaxScale = 3.0
)

// Style holds the typography attributes carried 1:1 from the layout format.
type Style struct {
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    int     `json:"fontWeight"`
	Color         string  `json:"color"` // hex, e.g. "#ffffff"
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	TextTransform string  `json:"textTransform,omitempty"`
	MaxWidth      float64 `json:"maxWidth,omitempty"` // percent of canvas, 0 = unset
	Shadow        string  `json:"shadow,omitempty"`
	Background    string  `json:"background,omitempty"`
}

// Overlay is one editable text element placed on the base image.
type Overlay struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"` // percent of image box, [0,100]
	Y        float64 `json:"y"` // percent of image box, [0,100]
	Scale    float64 `json:"scale"`    // [0.5,3.0]
	Rotation float64 `json:"rotation"` // degrees, raw accumulation
	Anchor   Align   `json:"anchor"`
	Style    Style   `json:"style"`
}

// ClampTransform forces x, y and scale back into their bounds. Every
// transform write goes through this; rotation is deliberately unbounded.
func (o *Overlay) ClampTransform() {
	o.X = clampF(o.X, MinPos, MaxPos)
	o.Y = clampF(o.Y, MinPos, MaxPos)
	o.Scale = clampF(o.Scale, MinScale, MaxScale)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Collection is the per-session overlay list. Array order is paint/z-order;
// the selected overlay is rendered above all others regardless of position.
type Collection []Overlay

// Clone returns a snapshot-safe deep copy. Overlay contains only value
// fields, so copying the backing array is a full deep copy.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Index returns the position of the overlay with the given id, or -1.
func (c Collection) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a pointer into the collection for in-place mutation.
func (c Collection) Get(id string) (*Overlay, bool) {
	if i := c.Index(id); i >= 0 {
		return &c[i], true
	}
	return nil, false
}

// Remove deletes the overlay with the given id, preserving z-order of the
// rest. Returns false if the id is absent.
func (c *Collection) Remove(id string) bool {
	i := c.Index(id)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i], (*c)[i+1:]...)
	return true
}
