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

package deriveutil

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/spatialgrid/derive"
	"github.com/spatialgrid/derive/dataset"
	"github.com/spatialgrid/derive/graphics"
)

// MakeData writes a synthetic NetCDF dataset to path.
func MakeData(path string) error {
	Log.WithFields(logrus.Fields{
		"path": path,
	}).Info("writing synthetic dataset")
	return dataset.WriteSynthetic(path)
}

// openConfigured opens the dataset named by the InputFile configuration
// variable and registers a vector plugin if Vector.EastVar and
// Vector.NorthVar are both set.
func openConfigured(cfg *viper.Viper) (*dataset.GridDataset, error) {
	d, err := dataset.OpenFile(os.ExpandEnv(cfg.GetString("InputFile")))
	if err != nil {
		return nil, err
	}
	east := cfg.GetString("Vector.EastVar")
	north := cfg.GetString("Vector.NorthVar")
	if east != "" && north != "" {
		p, err := derive.NewVectorPlugin(east, north, cfg.GetString("Vector.Title"))
		if err != nil {
			d.Close()
			return nil, err
		}
		if err := d.AddPlugin(p); err != nil {
			d.Close()
			return nil, err
		}
		Log.WithFields(logrus.Fields{
			"east":  east,
			"north": north,
		}).Info("registered vector plugin")
	}
	return d, nil
}

// Render reads a horizontal slab of the configured variable and writes
// it as an image.
func Render(cfg *viper.Viper) error {
	varID := cfg.GetString("Variable")
	if varID == "" {
		return fmt.Errorf("derive: no variable specified to render")
	}
	format, err := graphics.FormatByName(cfg.GetString("Format"))
	if err != nil {
		return err
	}

	d, err := openConfigured(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	tIndices, err := cast.ToIntSliceE(cfg.Get("Times"))
	if err != nil {
		return fmt.Errorf("derive: reading render 'Times': %v", err)
	}
	if cfg.GetBool("Animate") {
		_, _, _, times := d.Axes()
		tIndices = tIndices[:0]
		for i := range times {
			tIndices = append(tIndices, i)
		}
	}
	if len(tIndices) == 0 {
		tIndices = []int{cfg.GetInt("TimeIndex")}
	}
	if len(tIndices) > 1 && !format.SupportsMultipleFrames() {
		return fmt.Errorf("derive: format %s cannot hold an animation", format.MimeType())
	}

	zIndex := cfg.GetInt("DepthIndex")
	arrays := make([]derive.Array2D, len(tIndices))
	for i, t := range tIndices {
		if arrays[i], err = d.ReadArray(varID, t, zIndex); err != nil {
			return err
		}
	}

	// A shared scale keeps animation frames comparable.
	min, max := cfg.GetFloat64("ScaleMin"), cfg.GetFloat64("ScaleMax")
	if min == max {
		min, max = math.Inf(1), math.Inf(-1)
		for _, a := range arrays {
			lo, hi := graphics.ValueRange(a)
			if math.IsNaN(lo) {
				continue
			}
			min = math.Min(min, lo)
			max = math.Max(max, hi)
		}
		if min > max {
			return fmt.Errorf("derive: variable %s holds no values to render", varID)
		}
	}

	pal := graphics.DefaultPalette(64)
	frames := make([]image.Image, len(arrays))
	for i, a := range arrays {
		frames[i] = graphics.Rasterize(a, min, max, pal)
	}

	outPath := os.ExpandEnv(cfg.GetString("OutputFile"))
	w, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("derive: creating image file: %v", err)
	}
	defer w.Close()
	if err := format.Write(w, frames); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"variable": varID,
		"frames":   len(frames),
		"min":      min,
		"max":      max,
		"path":     outPath,
	}).Info("rendered variable")
	return nil
}

// Describe prints the metadata tree of the configured dataset to w.
func Describe(w io.Writer, cfg *viper.Viper) error {
	d, err := openConfigured(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	lats, lons, depths, times := d.Axes()
	fmt.Fprintf(w, "grid: %d×%d cells, %d depths, %d time steps (every %g s)\n",
		len(lats), len(lons), len(depths), len(times), d.TimeStep().Value())
	describeNode(w, d.Root(), 0)
	return nil
}

func describeNode(w io.Writer, m *derive.VariableMetadata, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s", indent, m.ID())
	if p := m.Parameter; p.Description != "" || p.Units != "" {
		fmt.Fprintf(w, ": %s", p.Description)
		if p.Units != "" {
			fmt.Fprintf(w, " [%s]", p.Units)
		}
	}
	fmt.Fprintln(w)
	if h := m.Horizontal; h != nil && h.Bounds != nil {
		fmt.Fprintf(w, "%s  extent: lon [%g, %g], lat [%g, %g]\n", indent,
			h.Bounds.Min.X, h.Bounds.Max.X, h.Bounds.Min.Y, h.Bounds.Max.Y)
	}
	if v := m.Vertical; v != nil {
		fmt.Fprintf(w, "%s  vertical: [%g, %g]", indent, v.Low, v.High)
		if v.CRS != nil && v.CRS.Units != "" {
			fmt.Fprintf(w, " %s", v.CRS.Units)
		}
		fmt.Fprintln(w)
	}
	if t := m.Temporal; t != nil {
		fmt.Fprintf(w, "%s  time: %v to %v (%s)\n", indent,
			t.Start.Format("2006-01-02"), t.End.Format("2006-01-02"), t.Calendar)
	}
	for _, c := range m.Children() {
		describeNode(w, c, depth+1)
	}
}
