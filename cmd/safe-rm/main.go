package main

import (
	"os"

	"safe-rm/internal/config"
	"safe-rm/internal/exitcodes"
	"safe-rm/internal/history"
	"safe-rm/internal/logging"
	"safe-rm/internal/metrics"
	"safe-rm/internal/protect"
	"safe-rm/internal/runner"
	"safe-rm/internal/safety"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the whole pipeline: wrapper config -> protected set -> filter
// -> forward. Every argument not parsed here belongs to the real rm; no
// flags of our own.
func run(args []string) int {
	cfg, cfgErr := config.Load(config.DefaultPath)
	logger := logging.NewWithConfig(cfg)
	if cfgErr != nil {
		logger.Printf("safe-rm: Ignoring wrapper configuration: %v", cfgErr)
	}

	metrics.Init()

	var db *history.DB
	if cfg.DatabasePath != "" {
		var err error
		db, err = history.Open(cfg.DatabasePath)
		if err != nil {
			logger.Printf("safe-rm: Could not open history database %s: %v", cfg.DatabasePath, err)
		} else {
			defer db.Close()
		}
	}

	binary := runner.Resolve(cfg.RmBinary, os.Getenv(runner.RealRmEnv))

	// Forwarding to ourselves would recurse until the kernel objects.
	selfRef, err := runner.EnsureNotSelf(binary)
	if err != nil {
		logger.Printf("safe-rm: Cannot check that the real %q binary is callable: %v", binary, err)
	} else if selfRef {
		logger.Printf("safe-rm: Cannot find the real %q binary.", binary)
		return exitcodes.Failure
	}

	loader := protect.NewLoader(logger)
	loader.Globals = append(loader.Globals, cfg.ProtectFiles...)
	protected := loader.Load()

	kept, skipped := safety.FilterArgs(args, protected, logger)

	if db != nil {
		for _, arg := range skipped {
			if err := db.RecordSkip(arg, safety.NormalizePath(arg)); err != nil {
				logger.Printf("safe-rm: Could not record skipped argument: %v", err)
			}
		}
	}

	code := runner.Forward(runner.OSInvoker{}, binary, kept, logger)

	if db != nil {
		if err := db.RecordRun(binary, code); err != nil {
			logger.Printf("safe-rm: Could not record invocation: %v", err)
		}
	}
	if cfg.MetricsTextfileDir != "" {
		metrics.LastRunTimestamp.SetToCurrentTime()
		metrics.LastRunSkipped.Set(float64(len(skipped)))
		metrics.LastRunForwarded.Set(float64(len(kept)))
		metrics.LastRunExitCode.Set(float64(code))
		if err := metrics.WriteTextfile(cfg.MetricsTextfileDir); err != nil {
			logger.Printf("safe-rm: Could not write metrics textfile: %v", err)
		}
	}

	return code
}
