package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
	"github.com/maxsupermanhd/RegionTiles/lib/nbtwalk"
	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/maxsupermanhd/RegionTiles/render"
	"github.com/maxsupermanhd/RegionTiles/render/argb"
)

var (
	regDir   = flag.String("dir", "", "Path to region directory")
	cx       = flag.Int("x", 0, "Absolute column x")
	cz       = flag.Int("z", 0, "Absolute column z")
	dumpTree = flag.Bool("tree", false, "Dump raw tag tree instead of decoded column")
	surface  = flag.Bool("surface", false, "Print composited color and height of every voxel column")
)

type blockCount struct {
	ID    uint16
	Count int
}

func histogram(s *render.Section) []blockCount {
	counts := map[uint16]int{}
	for _, b := range s.Blocks {
		counts[b]++
	}
	ret := make([]blockCount, 0, len(counts))
	for id, n := range counts {
		ret = append(ret, blockCount{ID: id, Count: n})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Count > ret[j].Count })
	return ret
}

// columnPath locates region file holding column cx, cz and the column
// position inside of it.
func columnPath(dir string, cx, cz int) (string, int, int) {
	lx, lz := primitives.In(cx, cz)
	return filepath.Join(dir, filesystemChunkStorage.RegionFileName(primitives.At(cx, cz))), lx, lz
}

func main() {
	flag.Parse()
	if *regDir == "" {
		log.Fatalln("Region directory not set")
	}
	path, lx, lz := columnPath(*regDir, *cx, *cz)
	r, err := filesystemChunkStorage.OpenRegion(path)
	must(err)
	defer r.Close()
	data, err := r.ColumnData(lx, lz)
	must(err)
	if data == nil {
		log.Printf("Column %d:%d is not present in %s", *cx, *cz, path)
		os.Exit(1)
	}
	root, err := nbtwalk.Parse(data)
	must(err)
	if *dumpTree {
		spew.Dump(root)
		return
	}
	var col render.Column
	must(render.DecodeColumn(root, &col))
	fmt.Printf("Column %d:%d, %d populated sections\n", *cx, *cz, col.PopulatedCount())
	for y := range col.Sections {
		if !col.Populated[y] {
			continue
		}
		fmt.Printf("Section %d:\n", y)
		spew.Dump(histogram(&col.Sections[y]))
	}
	fmt.Println("Biomes:")
	spew.Dump(col.Biomes)
	if *surface {
		rend := render.NewRegionRenderer(nil, nil, nil)
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				c, h := rend.CompositeColumn(&col, x, z)
				fmt.Printf("%s@%-3d ", argb.Hex(c), h)
			}
			fmt.Println()
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}
