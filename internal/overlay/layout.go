/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package overlay

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Layout is the external text layout exchanged with the generation service.
type Layout struct {
	Elements []Element `json:"elements"`
}

// Element is one positioned text element in the external layout format.
type Element struct {
	Text   string  `json:"text"`
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor Align   `json:"anchor"`
	Style  Style   `json:"style"`
}

// TextContent is the reduced commit payload keyed by kind. Body overlays are
// never surfaced here.
type TextContent struct {
	Headline    string `json:"headline,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
	CTA         string `json:"cta,omitempty"`
}

// idSeq disambiguates FromLayout calls that land on the same millisecond.
var idSeq atomic.Uint64

// FromLayout expands each layout element into one overlay with identity
// transform defaults. Generated ids stay unique across repeated invocations
// in the same process: they combine the session-start timestamp, a process
// sequence number and the element index.
func FromLayout(l Layout) Collection {
	epoch := time.Now().UnixMilli()
	seq := idSeq.Add(1)
	out := make(Collection, 0, len(l.Elements))
	for i, el := range l.Elements {
		out = append(out, Overlay{
			ID:       fmt.Sprintf("ov-%d-%d-%d", epoch, seq, i),
			Text:     el.Text,
			Kind:     el.Kind,
			X:        el.X,
			Y:        el.Y,
			Scale:    1,
			Rotation: 0,
			Anchor:   el.Anchor,
			Style:    el.Style,
		})
	}
	return out
}

// TextContent reduces the collection in array order. Trimmed-empty texts are
// skipped; when two overlays share a kind the later one wins.
func (c Collection) TextContent() TextContent {
	var tc TextContent
	for i := range c {
		text := strings.TrimSpace(c[i].Text)
		if text == "" {
			continue
		}
		switch c[i].Kind {
		case KindHeadline:
			tc.Headline = text
		case KindSubheadline:
			tc.Subheadline = text
		case KindCTA:
			tc.CTA = text
		case KindBody:
			// body text is edited in place but not part of the reduced payload
		}
	}
	return tc
}

// ToLayout maps the collection back into the external layout shape for
// regeneration flows. The scale multiplier is folded into the effective font
// size; it is not transmitted separately.
func (c Collection) ToLayout() Layout {
	els := make([]Element, 0, len(c))
	for i := range c {
		o := c[i]
		st := o.Style
		st.FontSize = o.Style.FontSize * o.Scale
		els = append(els, Element{
			Text:   o.Text,
			Kind:   o.Kind,
			X:      o.X,
			Y:      o.Y,
			Anchor: o.Anchor,
			Style:  st,
		})
	}
	return Layout{Elements: els}
}

// ParseLayout validates raw JSON against the layout schema and decodes it.
func ParseLayout(data []byte) (Layout, error) {
	if err := ValidateLayout(data); err != nil {
		return Layout{}, err
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	for i, el := range l.Elements {
		if !el.Kind.Valid() {
			return Layout{}, fmt.Errorf("element %d: unknown kind %q", i, el.Kind)
		}
	}
	return l, nil
}
