// Package flagx extracts a few bootstrap flags ahead of the main flag set, so
// that file-based configuration can be loaded before command-line overrides.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags of args together with their
// values. Both "-c file" and "-c=file" forms are understood; a following
// argument starting with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
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

// Bootstrap holds the file locations given on the command line.
type Bootstrap struct {
	ConfigFile string // -c / -config, JSON
	EnvFile    string // -env, dotenv
}

// ParseBootstrap reads -c/-config and -env from args (without the program
// name). Other flags are ignored; when a flag repeats, the last one wins.
func ParseBootstrap(args []string) Bootstrap {
	var b Bootstrap

	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&b.ConfigFile, "config", "", "path to JSON config file")
	fs.StringVar(&b.ConfigFile, "c", "", "path to JSON config file (short)")
	fs.StringVar(&b.EnvFile, "env", "", "path to .env file")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "-env"}))

	return b
}
