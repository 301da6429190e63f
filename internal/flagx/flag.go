// Package flagx holds small helpers for components that each parse their own
// subset of the command line.
package flagx

import (
	"flag"
	"io"
	"strconv"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags, with their values.
//
// Both "-f value" and "-f=value" forms are recognised. A token following an
// allowed flag is taken as its value unless it looks like a flag; negative
// numbers such as "-1" count as values. Unknown flags
// and positional arguments are dropped, so the result can be handed to a
// flag.FlagSet that only knows the allowed names.
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
			if i+1 < len(args) && isValue(args[i+1]) {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// isValue reports whether tok can be the value of a preceding flag.
func isValue(tok string) bool {
	if !strings.HasPrefix(tok, "-") {
		return true
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// stringFlag parses a single string option known under several names and
// returns the last value given, or "".
func stringFlag(args []string, set string, names ...string) string {
	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}

	var v string
	fs := flag.NewFlagSet(set, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&v, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))
	return v
}

// ConfigFileFlag returns the config file path given with -c or -config.
func ConfigFileFlag(args []string) string {
	return stringFlag(args, "config", "c", "config")
}

// EnvFileFlag returns the dotenv file path given with -e or -env-file.
func EnvFileFlag(args []string) string {
	return stringFlag(args, "env", "e", "env-file")
}

// Positional returns the arguments that are neither flags nor flag values,
// using the same value rule as FilterArgs. Every flag is assumed to take a
// value, which holds for all flags of this project. A lone "--" ends flag
// processing.
func Positional(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i+1:]...)
		case strings.HasPrefix(arg, "-"):
			if !strings.Contains(arg, "=") && i+1 < len(args) && isValue(args[i+1]) {
				i++
			}
		default:
			out = append(out, arg)
		}
	}
	return out
}
