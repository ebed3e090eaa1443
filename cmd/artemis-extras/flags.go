package main

import (
	"flag"
	"fmt"
	"io"
)

const (
	modeDiscover = "discover"
	modeExpand   = "expand"
	modeReport   = "report"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	TargetsFile      string
	TasksFile        string
	PagesDir         string
	Output           string
	Language         string
}

// ParseFlags parses args (without the program name). Short aliases are used
// only when the long flag is empty.
func ParseFlags(args []string, stderr io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("artemis-extras", flag.ContinueOnError)
	fs.SetOutput(stderr)

	globalConfigFile := fs.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	modeFlag := fs.String("mode", "", "Mode to run: discover, expand or report")
	modeFlagAlias := fs.String("m", "", "Alias for -mode")

	targetsFile := fs.String("file", "", "discover/expand: text file with one URL per line (stdin when empty). report: JSON lines file of task results (the SQLite store when empty)")
	targetsFileAlias := fs.String("f", "", "Alias for -file")

	tasksFile := fs.String("tasks", "", "discover: JSON lines file of task envelopes, used instead of -file")
	pagesDir := fs.String("pages", "", "discover: directory of saved pages named after their URL")
	output := fs.String("out", "", "discover/expand: candidates file. report: directory for one e-mail per top-level target. Stdout when empty")
	lang := fs.String("lang", "", "report: language of the rendered reports (overrides config)")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		TasksFile: *tasksFile,
		PagesDir:  *pagesDir,
		Output:    *output,
		Language:  *lang,
	}

	flags.GlobalConfigFile = firstNonEmpty(*globalConfigFile, *globalConfigFileAlias)
	flags.Mode = firstNonEmpty(*modeFlag, *modeFlagAlias)
	flags.TargetsFile = firstNonEmpty(*targetsFile, *targetsFileAlias)

	switch flags.Mode {
	case modeDiscover, modeExpand, modeReport:
	case "":
		return AppFlags{}, fmt.Errorf("-mode argument is required (%s, %s or %s)", modeDiscover, modeExpand, modeReport)
	default:
		return AppFlags{}, fmt.Errorf("unknown mode %q", flags.Mode)
	}

	return flags, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
