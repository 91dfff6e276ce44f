// Package cli contains the command line interface for lis.
//
// # Usage
//
//	lis [flags] [repl]             interactive session (default)
//	lis [flags] eval [expr ...]    evaluate and print
//	lis [flags] fmt  [native|json|yaml|ast] [source]
//	lis [flags] init [--force]     write the configuration file
//
// Files given with --source are loaded into the session before the repl
// prompt or the eval arguments.
//
// # Configuration
//
// The configuration file ($XDG_CONFIG_HOME/lis/config) is itself a Lisp
// program. Each top-level define whose name matches a flag supplies that
// flag's default:
//
//	(define log-level (quote debug))
//	(define log-format (quote text))
//	(define max-depth 5000)
//
// The init command writes the current flag values in this form. A JSON
// file with the same base name and a .json extension is also honored.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, ...)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lis .
//
// It adds --pprof-mode, which selects the profile to record (allocs, block,
// clock, cpu, goroutine, heap, mem, mutex, thread or trace), and --pprof-dir,
// which defaults to the pprof subdirectory of the lis cache directory.
//
// # Examples
//
//	# Trace every closure application while computing a factorial
//	lis --log-level=trace --log-format=text eval \
//	    '(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))' '(fact 5)'
//
//	# Load a prelude and start the interactive session
//	lis -s prelude.lisp
//
//	# Reformat a program as YAML
//	lis fmt yaml prog.lisp
package cli
