package render

import (
	"fmt"
	"io"
	"time"

	humanize "github.com/dustin/go-humanize"
)

// Stats are timing and volume counters of one or more region renders.
// They are informational only.
type Stats struct {
	RegionLoading  time.Duration
	PreRendering   time.Duration
	PostProcessing time.Duration
	ImageSaving    time.Duration
	Total          time.Duration

	RegionCount  int
	SkippedCount int
	FailedCount  int
	SectionCount int
	ColumnCount  int
	BrokenCount  int
	BytesWritten int64
}

func (s *Stats) Merge(o Stats) {
	s.RegionLoading += o.RegionLoading
	s.PreRendering += o.PreRendering
	s.PostProcessing += o.PostProcessing
	s.ImageSaving += o.ImageSaving
	s.Total += o.Total
	s.RegionCount += o.RegionCount
	s.SkippedCount += o.SkippedCount
	s.FailedCount += o.FailedCount
	s.SectionCount += o.SectionCount
	s.ColumnCount += o.ColumnCount
	s.BrokenCount += o.BrokenCount
	s.BytesWritten += o.BytesWritten
}

func per(ms float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return ms / float64(n)
}

// FormatTime renders one report row: milliseconds total, per region
// and per section.
func (s *Stats) FormatTime(name string, d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	return fmt.Sprintf("%20s: % 8d   % 8.2f   % 8.4f", name, d.Milliseconds(), per(ms, s.RegionCount), per(ms, s.SectionCount))
}

func (s *Stats) Report(w io.Writer) {
	fmt.Fprintf(w, "Rendered %s regions, %s sections in %s (%s skipped, %s failed, %s broken columns, %s written)\n",
		humanize.Comma(int64(s.RegionCount)), humanize.Comma(int64(s.SectionCount)), s.Total.Round(time.Millisecond),
		humanize.Comma(int64(s.SkippedCount)), humanize.Comma(int64(s.FailedCount)), humanize.Comma(int64(s.BrokenCount)),
		humanize.Bytes(uint64(s.BytesWritten)))
	fmt.Fprintln(w, "The following times lines indicate milliseconds total, per region, and per section")
	fmt.Fprintln(w, s.FormatTime("Loading", s.RegionLoading))
	fmt.Fprintln(w, s.FormatTime("Pre-rendering", s.PreRendering))
	fmt.Fprintln(w, s.FormatTime("Post-processing", s.PostProcessing))
	fmt.Fprintln(w, s.FormatTime("Image saving", s.ImageSaving))
	fmt.Fprintln(w, s.FormatTime("Total", s.Total))
}
