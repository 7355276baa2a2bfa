package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sadopc/finding/internal/scanner"
	"github.com/sadopc/finding/internal/util"
)

const defaultSSHPort = 22

// settings is the resolved command line: flags over FINDING_* env over config file
// over defaults.
type settings struct {
	Target string
	Dir    string
	Search string

	HugeFile      string
	LargeTextFile string
	LargeLineSize string

	FileExt           string
	IgnoreCase        bool
	FilterLargeLine   bool
	FilterFileName    string
	FilterLineContent string
	ScanDotGit        bool
	SkipTargetDir     bool
	SkipDotDir        bool
	SkipLinkDir       bool
	Verbose           bool

	SSH        string
	SSHPort    int
	SSHBatch   bool
	SSHTimeout time.Duration
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string
	var showVersion bool

	cmd := &cobra.Command{
		Use:   "finding [flags] [SEARCH TEXT]",
		Short: "finding - command line find tool.",
		Long: `finding scans a directory tree for huge files (--target huge) or
searches text files for a literal string (--target text, the default).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(stdout, banner, version)
				return nil
			}
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			s := readSettings(v, args)
			return run(cmd.Context(), s, stdout)
		},
	}
	cmd.SetOut(stdout)

	f := cmd.Flags()
	f.SortFlags = false
	f.StringP("target", "t", "text", "Target, text, huge[file]")
	f.StringP("dir", "d", ".", "Target directory")
	f.String("huge-file", "100M", "Huge file size")
	f.String("large-text-file", "10M", "Large text file size, larger files are skipped")
	f.StringP("file-ext", "f", "", "File extensions, comma separated, default all")
	f.BoolP("ignore-case", "i", false, "Ignore case, disables highlighting")
	f.Bool("filter-large-line", false, "Skip large lines")
	f.String("large-line-size", "10KB", "Large line size")
	f.String("filter-file-name", "", "File path must contain this text [Text Mode]")
	f.String("filter-line-content", "", "Matched line must also contain this text [Text Mode]")
	f.Bool("scan-dot-git", false, "Scan .git directories [Text Mode]")
	f.Bool("skip-target-dir", false, "Skip target directories [Text Mode]")
	f.Bool("skip-dot-dir", false, "Skip dot directories [Text Mode]")
	f.Bool("skip-link-dir", false, "Skip symlinked directories")
	f.Bool("verbose", false, "Log skipped entries and errors")
	f.String("ssh", "", "Scan --dir on a remote host, user@host")
	f.Int("ssh-port", defaultSSHPort, "SSH port for remote scans")
	f.Bool("ssh-batch", false, "Disable SSH prompts (key/agent auth only)")
	f.Duration("ssh-timeout", 15*time.Second, "SSH connection timeout")
	f.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/finding/config.yaml)")
	f.BoolVarP(&showVersion, "version", "v", false, "Print version")

	f.VisitAll(func(fl *pflag.Flag) {
		if fl.Name == "config" || fl.Name == "version" {
			return
		}
		_ = v.BindPFlag(fl.Name, fl)
	})
	v.SetEnvPrefix("FINDING")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// loadConfig reads cfgFile, or the default config file when it exists.
func loadConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".config", "finding"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func readSettings(v *viper.Viper, args []string) settings {
	s := settings{
		Target:            v.GetString("target"),
		Dir:               v.GetString("dir"),
		HugeFile:          v.GetString("huge-file"),
		LargeTextFile:     v.GetString("large-text-file"),
		LargeLineSize:     v.GetString("large-line-size"),
		FileExt:           v.GetString("file-ext"),
		IgnoreCase:        v.GetBool("ignore-case"),
		FilterLargeLine:   v.GetBool("filter-large-line"),
		FilterFileName:    v.GetString("filter-file-name"),
		FilterLineContent: v.GetString("filter-line-content"),
		ScanDotGit:        v.GetBool("scan-dot-git"),
		SkipTargetDir:     v.GetBool("skip-target-dir"),
		SkipDotDir:        v.GetBool("skip-dot-dir"),
		SkipLinkDir:       v.GetBool("skip-link-dir"),
		Verbose:           v.GetBool("verbose"),
		SSH:               v.GetString("ssh"),
		SSHPort:           v.GetInt("ssh-port"),
		SSHBatch:          v.GetBool("ssh-batch"),
		SSHTimeout:        v.GetDuration("ssh-timeout"),
	}
	if len(args) > 0 {
		s.Search = args[0]
	}
	return s
}

// scanOptions converts the size strings and filters in s into scanner options.
func (s settings) scanOptions() (scanner.Options, error) {
	opts := scanner.DefaultOptions()
	opts.SkipLinkDir = s.SkipLinkDir
	opts.Verbose = s.Verbose
	opts.FileExts = util.SplitComma(s.FileExt)
	opts.IgnoreCase = s.IgnoreCase
	opts.FilterLargeLine = s.FilterLargeLine
	opts.FilterFileName = s.FilterFileName
	opts.FilterLineContent = s.FilterLineContent
	opts.ScanDotGit = s.ScanDotGit
	opts.SkipTargetDir = s.SkipTargetDir
	opts.SkipDotDir = s.SkipDotDir

	var err error
	if opts.LargeTextFileSize, err = parseSizeFlag("large-text-file", s.LargeTextFile); err != nil {
		return opts, err
	}
	if opts.LargeLineSize, err = parseSizeFlag("large-line-size", s.LargeLineSize); err != nil {
		return opts, err
	}
	return opts, nil
}
