package scanner

import "time"

// HugeSummary is the result of a huge-file scan.
type HugeSummary struct {
	// TotalFiles is every regular file visited.
	TotalFiles uint64
	// HugeFiles is the number of files at or above the threshold.
	HugeFiles uint64
	// HugeBytes is the combined length of those files.
	HugeBytes uint64
	// Duration is the elapsed scan time.
	Duration time.Duration
}

// TextSummary is the result of a text scan.
type TextSummary struct {
	// TotalDirs counts every directory offered to the filter.
	TotalDirs uint64
	// ScannedDirs counts directories that were admitted.
	ScannedDirs uint64
	// TotalFiles counts every regular file visited.
	TotalFiles uint64
	// ScannedFiles counts files whose content was read and searched.
	ScannedFiles uint64
	// MatchedFiles counts files with at least one matching line.
	MatchedFiles uint64
	// Duration is the elapsed scan time.
	Duration time.Duration
}

// FilesPerSecond returns the scan rate.
func (s TextSummary) FilesPerSecond() float64 {
	return rate(s.TotalFiles, s.Duration)
}

// FilesPerSecond returns the scan rate.
func (s HugeSummary) FilesPerSecond() float64 {
	return rate(s.TotalFiles, s.Duration)
}

func rate(n uint64, d time.Duration) float64 {
	if d.Seconds() == 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
