/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package baseimage resolves the base image reference handed to an editing
// session. Only the intrinsic pixel size matters here: the coordinate mapper
// needs it for the letterbox fit, painting belongs to the UI backend.
package baseimage

import (
	"fmt"
	"image"
	"io"
	"os"

	// register decoders for the formats the generation service produces
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Ref identifies a base image and its intrinsic size. A zero-size Ref keeps
// the session functional with coordinate mapping disabled until a real
// measurement arrives.
type Ref struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Valid reports whether the image has a usable size.
func (r Ref) Valid() bool { return r.Width > 0 && r.Height > 0 }

// Open reads just enough of the file at path to determine format and size.
func Open(path string) (Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return Ref{Path: path}, fmt.Errorf("open base image: %w", err)
	}
	defer f.Close()
	ref, err := Decode(f)
	ref.Path = path
	return ref, err
}

// Decode determines format and size from an image stream.
func Decode(r io.Reader) (Ref, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Ref{}, fmt.Errorf("decode base image: %w", err)
	}
	return Ref{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
