package blockdupes

// This file holds the one-call entry points used by the CLI

// InitDebugFlags initialises debug flags - for CLI compatibility
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// FindDuplicatesInPaths collects paths and runs a Finder over them.
// Intake warnings come first in Result.Warnings, followed by read warnings.
func FindDuplicatesInPaths(shutdownChan <-chan struct{}, paths []string, collect CollectOptions, opts Options) (*Result, error) {
	finder, err := NewFinder(opts)
	if err != nil {
		return nil, err
	}

	refs, intakeWarnings := CollectFileRefs(paths, collect)
	for _, fw := range intakeWarnings {
		opts.Metrics.recordFileError(fw.Op)
		logFileWarning(fw)
	}

	result, err := finder.FindDuplicates(shutdownChan, refs)
	if err != nil {
		return nil, err
	}

	if len(intakeWarnings) > 0 {
		result.Warnings = append(intakeWarnings, result.Warnings...)
		result.Stats.FilesFailed += len(intakeWarnings)
	}
	return result, nil
}
