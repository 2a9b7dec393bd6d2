// Package flagx lets several packages share os.Args without tripping over
// each other's flags: every config loader filters the arguments down to the
// flags it owns before handing them to its own flag.FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigEnvVar names the environment variable consulted when neither -c nor
// -config is given on the command line.
const ConfigEnvVar = "JOBPORTAL_CONFIG"

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// A following token is taken as the value unless it starts with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithSwitches(args, allowedFlags, nil)
}

// FilterArgsWithSwitches is FilterArgs for flag sets that also contain boolean
// switches (e.g. -v). A switch never consumes the following token, so
// "-v jobs" keeps "jobs" out of the filtered result.
func FilterArgsWithSwitches(args []string, allowedFlags []string, switches []string) []string {
	allowed := toSet(allowedFlags)
	isSwitch := toSet(switches)

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := allowed[name]; known {
				filtered = append(filtered, arg)
			} else if _, known := isSwitch[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := isSwitch[arg]; ok {
			filtered = append(filtered, arg)
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

// JsonConfigFlags returns the config file path given via -c or -config, or the
// value of ConfigEnvVar when no flag is present. Empty means "no JSON file".
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	if config == "" {
		config = os.Getenv(ConfigEnvVar)
	}

	return config
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
