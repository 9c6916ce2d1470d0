/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package overlay

import "testing"

func sampleLayout() Layout {
	return Layout{Elements: []Element{
		{Text: "Big News", Kind: KindHeadline, X: 50, Y: 20, Anchor: AlignCenter,
			Style: Style{FontFamily: "Inter", FontSize: 64, FontWeight: 700, Color: "#ffffff"}},
		{Text: "Try it today", Kind: KindCTA, X: 50, Y: 80, Anchor: AlignCenter,
			Style: Style{FontFamily: "Inter", FontSize: 28, FontWeight: 600, Color: "#ffcc00", MaxWidth: 60}},
	}}
}

func TestFromLayoutDefaults(t *testing.T) {
	c := FromLayout(sampleLayout())
	if len(c) != 2 {
		t.Fatalf("expected 2 overlays, got %d", len(c))
	}
	for i, o := range c {
		if o.Scale != 1 || o.Rotation != 0 {
			t.Errorf("overlay %d transform defaults: scale=%v rotation=%v", i, o.Scale, o.Rotation)
		}
		if o.ID == "" {
			t.Errorf("overlay %d has empty id", i)
		}
	}
	if c[0].X != 50 || c[0].Y != 20 || c[0].Anchor != AlignCenter {
		t.Errorf("position/anchor not carried over: %+v", c[0])
	}
	if c[1].Style.MaxWidth != 60 {
		t.Errorf("style not carried over: %+v", c[1].Style)
	}
}

func TestFromLayoutIDsUniqueAcrossInvocations(t *testing.T) {
	seen := map[string]bool{}
	for run := 0; run < 5; run++ {
		for _, o := range FromLayout(sampleLayout()) {
			if seen[o.ID] {
				t.Fatalf("duplicate id %q across invocations", o.ID)
			}
			seen[o.ID] = true
		}
	}
}

func TestTextContentLastWriteWins(t *testing.T) {
	c := Collection{
		{ID: "1", Kind: KindHeadline, Text: "A"},
		{ID: "2", Kind: KindHeadline, Text: "B"},
	}
	if got := c.TextContent().Headline; got != "B" {
		t.Fatalf("headline = %q, want B (last write wins)", got)
	}
}

func TestTextContentSkipsEmptyAndBody(t *testing.T) {
	c := Collection{
		{ID: "1", Kind: KindHeadline, Text: "  Title  "},
		{ID: "2", Kind: KindSubheadline, Text: "   "},
		{ID: "3", Kind: KindBody, Text: "long body copy"},
		{ID: "4", Kind: KindCTA, Text: "Go"},
	}
	tc := c.TextContent()
	if tc.Headline != "Title" {
		t.Errorf("headline = %q, want trimmed Title", tc.Headline)
	}
	if tc.Subheadline != "" {
		t.Errorf("whitespace-only text must be skipped, got %q", tc.Subheadline)
	}
	if tc.CTA != "Go" {
		t.Errorf("cta = %q", tc.CTA)
	}
}

func TestToLayoutFoldsScaleIntoFontSize(t *testing.T) {
	c := FromLayout(sampleLayout())
	c[0].Scale = 1.5
	c[0].X = 33
	out := c.ToLayout()
	if got := out.Elements[0].Style.FontSize; got != 96 {
		t.Errorf("fontSize = %v, want 64*1.5=96", got)
	}
	if out.Elements[0].X != 33 {
		t.Errorf("x not mapped back: %v", out.Elements[0].X)
	}
	if out.Elements[1].Style.FontSize != 28 {
		t.Errorf("unscaled element changed: %v", out.Elements[1].Style.FontSize)
	}
}

func TestParseLayoutRejectsUnknownKind(t *testing.T) {
	_, err := ParseLayout([]byte(`{"elements":[{"text":"x","kind":"banner","x":1,"y":1,"anchor":"left","style":{"fontFamily":"A","fontSize":10,"fontWeight":400,"color":"#000000"}}]}`))
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestParseLayoutEmptyElements(t *testing.T) {
	l, err := ParseLayout([]byte(`{"elements":[]}`))
	if err != nil {
		t.Fatalf("empty layout must parse: %v", err)
	}
	if len(FromLayout(l)) != 0 {
		t.Fatalf("empty layout must expand to zero overlays")
	}
}
