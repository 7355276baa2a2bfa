package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mordilloSan/go-logger/logger"

	"github.com/sadopc/finding/internal/fsys"
	"github.com/sadopc/finding/internal/output"
	"github.com/sadopc/finding/internal/remote"
	"github.com/sadopc/finding/internal/scanner"
	"github.com/sadopc/finding/internal/util"
)

type mode int

const (
	modeText mode = iota
	modeHuge
)

func parseMode(target string) (mode, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "text":
		return modeText, nil
	case "huge", "hugefile":
		return modeHuge, nil
	default:
		return 0, fmt.Errorf("unknown target: %s", target)
	}
}

func initLogging(verbose bool) {
	levels := []logger.Level{logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel}
	if verbose {
		levels = logger.AllLevels()
	}
	logger.Init(logger.Config{Levels: levels})
}

// run validates s, opens the tree and runs the selected scan. Every user error is
// returned before the first directory is listed.
func run(ctx context.Context, s settings, stdout io.Writer) error {
	initLogging(s.Verbose)

	m, err := parseMode(s.Target)
	if err != nil {
		return err
	}
	opts, err := s.scanOptions()
	if err != nil {
		return err
	}

	var threshold int64
	switch m {
	case modeHuge:
		if threshold, err = parseSizeFlag("huge-file", s.HugeFile); err != nil {
			return err
		}
	case modeText:
		if s.Search == "" {
			return scanner.ErrEmptySearchText
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	tree, root, closeTree, err := openTree(ctx, s)
	if err != nil {
		return err
	}
	defer closeTree()

	p := output.New(stdout)
	logger.DebugKV("scan starting", "root", root, "target", s.Target)

	switch m {
	case modeHuge:
		sum, err := scanner.ScanHuge(ctx, tree, root, threshold, opts, p)
		p.Messagef(output.KindOK, "Total file count: %d, huge file count: %d, total huge file size: %s",
			sum.TotalFiles, sum.HugeFiles, util.FormatSize(int64(sum.HugeBytes)))
		p.Messagef(output.KindInfo, "Finished, cost: %s (%.0f files/s)", elapsed(sum.Duration), sum.FilesPerSecond())
		if err != nil {
			return scanFailed(p, err)
		}
	default:
		sum, err := scanner.ScanText(ctx, tree, root, s.Search, opts, p)
		p.Messagef(output.KindOK, "Total dir count: %d, scanned dir count: %d", sum.TotalDirs, sum.ScannedDirs)
		p.Messagef(output.KindOK, "Total file count: %d, scanned file count: %d, matched file count: %d",
			sum.TotalFiles, sum.ScannedFiles, sum.MatchedFiles)
		p.Messagef(output.KindInfo, "Finished, cost: %s (%.0f files/s)", elapsed(sum.Duration), sum.FilesPerSecond())
		if err != nil {
			return scanFailed(p, err)
		}
	}
	return nil
}

// scanFailed labels a scan that stopped early. The counts printed above it are partial.
func scanFailed(p *output.Printer, err error) error {
	if errors.Is(err, context.Canceled) {
		p.Message(output.KindWarn, "Scan interrupted, counts are partial")
	} else {
		p.Messagef(output.KindError, "Scan aborted: %v", err)
	}
	return err
}

// openTree resolves the scan root on the local disk, or on the --ssh host.
func openTree(ctx context.Context, s settings) (fsys.FS, string, func(), error) {
	if s.SSH == "" {
		root, err := resolveLocalDir(s.Dir)
		return fsys.Local{}, root, func() {}, err
	}

	if err := validateSSHTarget(s.SSH); err != nil {
		return nil, "", nil, err
	}
	rfs, err := remote.Dial(ctx, remote.Config{
		Target:    s.SSH,
		Port:      s.SSHPort,
		BatchMode: s.SSHBatch,
		Timeout:   s.SSHTimeout,
	})
	if err != nil {
		return nil, "", nil, err
	}
	closeTree := func() {
		if err := rfs.Close(); err != nil {
			logger.WarnKV("closing ssh session failed", "host", s.SSH, "error", err)
		}
	}

	root, err := rfs.Resolve(s.Dir)
	if err != nil {
		closeTree()
		return nil, "", nil, fmt.Errorf("cannot find dir: %s: %w", s.Dir, err)
	}
	if !fsys.IsDir(rfs, root) {
		closeTree()
		return nil, "", nil, fmt.Errorf("%s is not a directory", root)
	}
	return rfs, root, closeTree, nil
}

func resolveLocalDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	expanded, err := util.ExpandHome(dir)
	if err != nil {
		return "", fmt.Errorf("cannot find dir: %s: %w", dir, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot find dir: %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cannot find dir: %s", dir)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func parseSizeFlag(name, value string) (int64, error) {
	n, err := util.ParseSize(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return n, nil
}

func elapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}
