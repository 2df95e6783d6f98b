/*
	RegionTiles, top-down tile renderer for block game regions
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
)

var (
	BuildTime  = "00000000.000000"
	CommitHash = "0000000"
	GoVersion  = "0.0"
	GitTag     = "0.0"
)

const usage = `Usage: regiontiles [options] -o <output-dir> <input-files>
  -h     ; print usage instructions and exit
  -f     ; force re-render even when images are newer than regions
  -debug ; be chatty
  -color-map <file>  ; load a custom color map from the specified file
  -biome-map <file>  ; load a custom biome color map from the specified file
  -create-tile-html  ; generate tiles.html in the output directory
  -create-image-tree ; generate a PicGrid-compatible image tree (unsupported)
  -create-big-image  ; merges all rendered images into a single file
  -big-image-scale <factor> ; scale of tiles in the big image, (0, 1]
  -watch ; keep running and re-render regions as they change

Input files may be 'region/' directories or individual '.mca' files.

tiles.html will always be generated if a single directory is given as input.
`

var (
	errNoInputs  = errors.New("no regions or directories specified")
	errNoOutput  = errors.New("output directory unspecified")
	errBadInputs = errors.New("bad inputs")
)

type command struct {
	outputDir     string
	force         bool
	debug         bool
	colorMap      string
	biomeMap      string
	tileHTML      bool
	tileHTMLSet   bool
	imageTree     bool
	bigImage      bool
	bigImageScale float64
	watch         bool
	inputs        []string
}

// parseArgs accepts options and inputs in any order.
func parseArgs(args []string) (*command, error) {
	c := &command{}
	fs := flag.NewFlagSet("regiontiles", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.outputDir, "o", "", "output directory")
	fs.BoolVar(&c.force, "f", false, "force re-render")
	fs.BoolVar(&c.debug, "debug", false, "be chatty")
	fs.StringVar(&c.colorMap, "color-map", "", "block color map file")
	fs.StringVar(&c.biomeMap, "biome-map", "", "biome color map file")
	fs.BoolVar(&c.tileHTML, "create-tile-html", false, "generate tiles.html")
	fs.BoolVar(&c.imageTree, "create-image-tree", false, "generate image tree")
	fs.BoolVar(&c.bigImage, "create-big-image", false, "merge tiles into one image")
	fs.Float64Var(&c.bigImageScale, "big-image-scale", 0, "big image tile scale")
	fs.BoolVar(&c.watch, "watch", false, "re-render on changes")
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		c.inputs = append(c.inputs, args[0])
		args = args[1:]
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "create-tile-html" {
			c.tileHTMLSet = true
		}
	})
	if len(c.inputs) == 0 {
		return c, errNoInputs
	}
	if c.outputDir == "" {
		return c, errNoOutput
	}
	return c, nil
}

func (c *command) shouldCreateTileHTML() bool {
	if c.tileHTMLSet {
		return c.tileHTML
	}
	return filesystemChunkStorage.SingleDirectory(c.inputs)
}

func main() {
	if buildinfo, ok := debug.ReadBuildInfo(); ok {
		GoVersion = buildinfo.GoVersion
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c, err := parseArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error: "+err.Error())
		fmt.Fprint(stderr, usage)
		return 1
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "Error loading config file: "+err.Error())
		return 1
	}
	l, logCloser := setupLogging(cfg, c.debug, stderr)
	defer logCloser.Close()
	l.Debug("RegionTiles starting", "built", BuildTime, "version", GitTag, "commit", CommitHash, "go", GoVersion)

	a, err := newApp(c, cfg, l, stderr)
	if err != nil {
		l.Error("Failed to set up renderer", "err", err)
		return 1
	}
	err = a.renderPass(ctx)
	if errors.Is(err, errBadInputs) {
		l.Error("Failed to read inputs", "err", err)
		return 1
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error("Render pass finished with errors", "err", err)
	}
	if c.watch && ctx.Err() == nil {
		if err := a.watch(ctx); err != nil {
			l.Error("Failed to watch inputs", "err", err)
			return 1
		}
	}
	return 0
}
