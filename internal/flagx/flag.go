// Package flagx helps several loaders share one command line: each loader
// filters os.Args down to the flags it owns before parsing.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Both "-c conf.json" and "-config=conf.json" forms are recognized. A token
// following an allowed flag is treated as its value unless it starts with "-".
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// FileFlags extracts the JSON config path (-c / -config) and the dotenv path
// (-e / -env) from args. Missing flags yield empty strings; other arguments
// are ignored.
func FileFlags(args []string) (configPath, envPath string) {
	filtered := FilterArgs(args, []string{"-c", "-config", "-e", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "path to JSON config file")
	fs.StringVar(&configPath, "c", "", "path to JSON config file (short)")
	fs.StringVar(&envPath, "env", "", "path to .env file")
	fs.StringVar(&envPath, "e", "", "path to .env file (short)")
	_ = fs.Parse(filtered)

	return configPath, envPath
}
