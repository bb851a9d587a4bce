/*
Copyright © 2026 the Derive authors.
This file is part of Derive.

Derive is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Derive is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Derive.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package graphics encodes rasterized variable data as images.
package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
)

// Format writes one or more image frames in a particular image file
// format. Implementations are stateless and safe for concurrent use.
type Format interface {
	// MimeType returns the MIME type of the encoded output.
	MimeType() string

	// SupportsMultipleFrames reports whether the format can encode an
	// animation.
	SupportsMultipleFrames() bool

	// SupportsTransparency reports whether fully transparent pixels
	// survive encoding.
	SupportsTransparency() bool

	// Write encodes frames to w.
	Write(w io.Writer, frames []image.Image) error
}

// FormatByName returns the format with the given name ("png", "jpeg",
// "jpg", or "gif").
func FormatByName(name string) (Format, error) {
	switch name {
	case "png":
		return PNG{}, nil
	case "jpeg", "jpg":
		return JPEG{}, nil
	case "gif":
		return GIF{}, nil
	}
	return nil, fmt.Errorf("graphics: unknown image format %q", name)
}

// PNG encodes a single frame as a PNG image.
type PNG struct{}

func (PNG) MimeType() string             { return "image/png" }
func (PNG) SupportsMultipleFrames() bool { return false }
func (PNG) SupportsTransparency() bool   { return true }

func (PNG) Write(w io.Writer, frames []image.Image) error {
	if len(frames) != 1 {
		return fmt.Errorf("graphics: cannot encode %d frames in PNG format", len(frames))
	}
	return png.Encode(w, frames[0])
}

// JPEG encodes a single frame as a JPEG image. Transparent pixels are
// flattened onto an opaque background.
type JPEG struct{}

func (JPEG) MimeType() string             { return "image/jpeg" }
func (JPEG) SupportsMultipleFrames() bool { return false }
func (JPEG) SupportsTransparency() bool   { return false }

func (JPEG) Write(w io.Writer, frames []image.Image) error {
	if len(frames) != 1 {
		return fmt.Errorf("graphics: cannot encode %d frames in JPEG format", len(frames))
	}
	return jpeg.Encode(w, frames[0], nil)
}

// GIF encodes one or more frames as a (possibly animated) GIF image.
type GIF struct {
	// DelayCentiseconds is the delay between animation frames. Zero
	// means as fast as possible.
	DelayCentiseconds int
}

func (GIF) MimeType() string             { return "image/gif" }
func (GIF) SupportsMultipleFrames() bool { return true }
func (GIF) SupportsTransparency() bool   { return true }

func (g GIF) Write(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return fmt.Errorf("graphics: cannot encode zero frames in GIF format")
	}
	anim := &gif.GIF{}
	for _, frame := range frames {
		b := frame.Bounds()
		pal := image.NewPaletted(b, palettedColors)
		draw.FloydSteinberg.Draw(pal, b, frame, b.Min)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, g.DelayCentiseconds)
	}
	return gif.EncodeAll(w, anim)
}
