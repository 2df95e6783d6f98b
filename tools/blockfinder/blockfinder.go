package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
	"github.com/maxsupermanhd/RegionTiles/lib/nbtwalk"
	"github.com/maxsupermanhd/RegionTiles/render"
)

var (
	blockIDs   = flag.String("blocks", "90", "Comma separated block ids to look for")
	outfname   = flag.String("out", "out.txt", "Filename for writing results to")
	threadsnum = flag.Int("threads", 3, "Thread count")
)

func must(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func parseIDs(s string) (map[uint16]bool, error) {
	ret := map[uint16]bool{}
	for _, p := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 12)
		if err != nil {
			return nil, fmt.Errorf("block id %q: %w", p, err)
		}
		ret[uint16(id)] = true
	}
	return ret, nil
}

// findInColumn reports matching sections of one decoded column.
func findInColumn(col *render.Column, want map[uint16]bool) map[int]uint16 {
	ret := map[int]uint16{}
	for y := range col.Sections {
		if !col.Populated[y] {
			continue
		}
		for _, b := range col.Sections[y].Blocks {
			if want[b] {
				ret[y] = b
				break
			}
		}
	}
	return ret
}

func worker(wid int, want map[uint16]bool, jobs <-chan chunkStorage.RegionFile, results chan<- string, wg *sync.WaitGroup) {
	log.Printf("Worker %d started", wid)
	defer wg.Done()
	var col render.Column
	chunkcount := 0
	for j := range jobs {
		r, err := filesystemChunkStorage.OpenRegion(j.Path)
		if err != nil {
			log.Printf("Failed to open region %s: %v", j.Loc, err)
			continue
		}
		for cz := 0; cz < 32; cz++ {
			for cx := 0; cx < 32; cx++ {
				data, err := r.ColumnData(cx, cz)
				if err != nil {
					log.Printf("Failed to read column %2d:%2d of region %s: %v", cx, cz, j.Loc, err)
					continue
				}
				if data == nil {
					continue
				}
				root, err := nbtwalk.Parse(data)
				if err == nil {
					err = render.DecodeColumn(root, &col)
				}
				if err != nil {
					log.Printf("Failed to decode column %2d:%2d of region %s: %v", cx, cz, j.Loc, err)
					continue
				}
				chunkcount++
				for y, b := range findInColumn(&col, want) {
					results <- fmt.Sprintf("CHUNK x%d z%d section %d block %d", j.Loc.X*32+cx, j.Loc.Z*32+cz, y, b)
				}
			}
		}
		r.Close()
	}
	log.Printf("Worker %d exits, processed %d chunks", wid, chunkcount)
}

func filewriter(results <-chan string, done chan<- struct{}) {
	log.Printf("Filewriter thread started")
	file, err := os.OpenFile(*outfname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	must(err)
	defer file.Close()
	linecount := 0
	for r := range results {
		linecount++
		file.WriteString(r + "\n")
	}
	log.Printf("File writer exits, wrote %d lines", linecount)
	close(done)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatalln("No region files or directories given")
	}
	want, err := parseIDs(*blockIDs)
	must(err)
	rm, err := filesystemChunkStorage.ScanRegions(flag.Args(), nil)
	must(err)

	jobs := make(chan chunkStorage.RegionFile, 64)
	results := make(chan string)
	done := make(chan struct{})
	wg := new(sync.WaitGroup)
	go filewriter(results, done)
	for w := 0; w < max(*threadsnum, 1); w++ {
		wg.Add(1)
		go worker(w, want, jobs, results, wg)
	}
	starttime := time.Now()
	prevtime := time.Now()
	for i, r := range rm.Regions {
		jobs <- r
		if time.Since(prevtime) > 1*time.Second {
			log.Printf("Dispatched %6d regions of %6d (%06.2f%%)", i, len(rm.Regions), float32(i)/float32(len(rm.Regions))*100)
			prevtime = time.Now()
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	log.Printf("Processed %d regions in %s", len(rm.Regions), time.Since(starttime).Round(time.Second))
}
