package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/finding/internal/counter"
	"github.com/sadopc/finding/internal/fsys"
	"github.com/sadopc/finding/internal/util"
	"github.com/sadopc/finding/internal/walker"
)

// hugeScan is the walker visitor for huge mode.
type hugeScan struct {
	fs        fsys.FS
	threshold int64
	opts      Options
	out       Output

	totalFiles counter.Cell
	hugeFiles  counter.Cell
	hugeBytes  counter.Cell
}

// ScanHuge reports every file under root whose length is at least threshold.
// Unreadable entries are skipped; only a cancelled ctx stops the scan early.
func ScanHuge(ctx context.Context, f fsys.FS, root string, threshold int64, opts Options, out Output) (HugeSummary, error) {
	start := time.Now()
	s := &hugeScan{fs: f, threshold: threshold, opts: opts, out: out}

	err := walker.New(f).Walk(ctx, root, s)
	out.Status("")

	return HugeSummary{
		TotalFiles: s.totalFiles.Get(),
		HugeFiles:  s.hugeFiles.Get(),
		HugeBytes:  s.hugeBytes.Get(),
		Duration:   time.Since(start),
	}, err
}

func (s *hugeScan) OnError(path string, err error) {
	diag(s.opts, s.out, "Error in path %s: %v", path, err)
}

func (s *hugeScan) OnFile(path string) {
	s.totalFiles.Inc()

	size, err := fsys.Len(s.fs, path)
	if err != nil {
		diag(s.opts, s.out, "Read file %s meta failed: %v", path, err)
		return
	}
	if size < s.threshold {
		return
	}

	s.hugeFiles.Inc()
	s.hugeBytes.Add(uint64(size))
	s.out.Println(fmt.Sprintf("%s [%s]", path, util.FormatSize(size)))
}

func (s *hugeScan) OnDirEnter(path string) bool {
	if s.opts.SkipLinkDir && fsys.IsSymlink(s.fs, path) {
		diag(s.opts, s.out, "Skip link dir: %s", path)
		return false
	}
	s.out.Status("Scanning: " + path)
	return true
}
