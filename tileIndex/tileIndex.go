package tileIndex

import (
	"bufio"
	"html/template"
	"os"
	"path/filepath"

	imagecache "github.com/maxsupermanhd/RegionTiles/imageCache"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

const FileName = "tiles.html"

var indexTemplate = template.Must(template.New("tiles").Parse(`<html><body style="background:black"><table border="0" cellspacing="0" cellpadding="0">
{{range .}}<tr>{{range .}}<td>{{if .Exists}}<img src="{{.Name}}"/>{{end}}</td>{{end}}</tr>
{{end}}</table></body></html>
`))

type cell struct {
	Name   string
	Exists bool
}

func rows(bounds primitives.Bounds, store *imagecache.TileStore) [][]cell {
	if bounds.Empty() {
		return nil
	}
	ret := make([][]cell, 0, bounds.Depth())
	for z := bounds.Min.Z; z <= bounds.Max.Z; z++ {
		row := make([]cell, 0, bounds.Width())
		for x := bounds.Min.X; x <= bounds.Max.X; x++ {
			loc := primitives.RegionLocation{X: x, Z: z}
			row = append(row, cell{Name: imagecache.TileName(loc), Exists: store.Exists(loc)})
		}
		ret = append(ret, row)
	}
	return ret
}

// Write creates tiles.html in dir with a table of every tile of store
// inside bounds (inclusive). Cells without a tile are left empty.
func Write(dir string, bounds primitives.Bounds, store *imagecache.TileStore) (string, error) {
	if err := os.MkdirAll(dir, 0764); err != nil {
		return "", err
	}
	fp := filepath.Join(dir, FileName)
	f, err := os.Create(fp)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	if err := indexTemplate.Execute(w, rows(bounds, store)); err != nil {
		f.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", err
	}
	return fp, f.Close()
}
