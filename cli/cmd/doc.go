// Package cmd implements the lis subcommands: repl, eval, fmt and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the global source files ([WithSourceFiles]), the
// interpreter options chosen on the command line ([WithInterpreterOptions])
// and the standard streams ([WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the Lisp configuration file.
	ConfigIdentifier = "config"
)
