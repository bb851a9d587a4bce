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

// Package deriveutil holds the command-line interface to the Derive
// library.
package deriveutil

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spatialgrid/derive"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands in this package.
var Log logrus.FieldLogger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Derive.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the location of the NetCDF file holding the
              gridded data to operate on.`,
			shorthand:  "i",
			defaultVal: "derive_data.nc",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags(), describeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the location of the file to write. For the
              makedata command it is a NetCDF file; for the render
              command it is an image file.`,
			shorthand:  "o",
			defaultVal: "derive_output",
			flagsets:   []*pflag.FlagSet{makedataCmd.Flags(), renderCmd.Flags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the identifier of the variable to render. It may
              be either a variable stored in the input file or a variable
              derived by a registered plugin.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "TimeIndex",
			usage: `
              TimeIndex is the index along the time axis to read.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "DepthIndex",
			usage: `
              DepthIndex is the index along the vertical axis to read.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Times",
			usage: `
              Times specifies a list of time indices to render as
              separate animation frames. It overrides TimeIndex, and the
              chosen format must support multiple frames.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Format",
			usage: `
              Format is the image format to write: png, jpeg, or gif.`,
			defaultVal: "png",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Animate",
			usage: `
              Animate specifies whether to render every time step as a
              separate animation frame. The chosen format must support
              multiple frames.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "ScaleMin",
			usage: `
              ScaleMin is the data value mapped to the low end of the
              color palette. If ScaleMin and ScaleMax are equal the
              range is taken from the data.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "ScaleMax",
			usage: `
              ScaleMax is the data value mapped to the high end of the
              color palette. If ScaleMin and ScaleMax are equal the
              range is taken from the data.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Vector.EastVar",
			usage: `
              Vector.EastVar is the identifier of the variable holding the
              eastward component of a vector quantity. If Vector.EastVar and
              Vector.NorthVar are both set, a vector plugin deriving the
              magnitude and direction of the vector is registered before
              rendering or describing.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags(), describeCmd.Flags()},
		},
		{
			name: "Vector.NorthVar",
			usage: `
              Vector.NorthVar is the identifier of the variable holding
              the northward component of a vector quantity.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags(), describeCmd.Flags()},
		},
		{
			name: "Vector.Title",
			usage: `
              Vector.Title is the human-readable description of the vector
              quantity assembled from Vector.EastVar and Vector.NorthVar.`,
			defaultVal: "vector field",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags(), describeCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DERIVE")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(makedataCmd)
	Root.AddCommand(renderCmd)
	Root.AddCommand(describeCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("derive: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "derive",
	Short: "A derived-variable engine for gridded geophysical data.",
	Long: `Derive reads gridded geophysical data from NetCDF files and computes
derived variables from them using registered plugins.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'DERIVE_var' where 'var' is
the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Derive.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Derive v%s\n", derive.Version)
	},
	DisableAutoGenTag: true,
}

var makedataCmd = &cobra.Command{
	Use:   "makedata",
	Short: "Write a synthetic NetCDF test dataset.",
	Long: `makedata writes a small NetCDF file with predictable contents:
ramp variables varying along each dimension, and pairs of vector
component variables pointing toward each diagonal. It is useful for
trying out the render and describe commands without real data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return MakeData(Cfg.GetString("OutputFile"))
	},
	DisableAutoGenTag: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a variable as an image.",
	Long: `render reads a horizontal slab of a variable, either stored or
derived, and writes it as a PNG, JPEG, or GIF image. Positions with
no value are rendered transparent where the format allows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Render(Cfg)
	},
	DisableAutoGenTag: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the variables in a dataset.",
	Long: `describe prints the metadata tree of a dataset: each variable with
its spatial and temporal extents, grouped under any registered
plugins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Describe(cmd.OutOrStdout(), Cfg)
	},
	DisableAutoGenTag: true,
}

// Execute runs the root command, printing any error to standard error.
func Execute() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
