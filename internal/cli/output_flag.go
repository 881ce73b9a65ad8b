package cli

import (
	"fmt"
	"strings"
)

const (
	argumentTerminator = "--"
	flagPrefix         = "-"
)

// normalizeOutputFileArguments rewrites "-o PATH" and "--output-file PATH" into "--output-file=PATH".
// A cluster such as "-do PATH" becomes "-d --output-file=PATH".
// The flag has an optional value, so without this rewrite the parser would read PATH as the root directory.
// A following argument that starts with "-" is left alone and the flag falls back to its default file name.
func normalizeOutputFileArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		current := arguments[index]
		if current == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		nextIndex := index + 1
		if hasOutputFileValue(current) && nextIndex < len(arguments) && !strings.HasPrefix(arguments[nextIndex], flagPrefix) {
			if clustered, isCluster := shorthandClusterBeforeOutputFile(current); isCluster {
				normalized = append(normalized, clustered)
			}
			normalized = append(normalized, fmt.Sprintf("--%s=%s", outputFileFlagName, arguments[nextIndex]))
			index += 2
			continue
		}
		normalized = append(normalized, current)
		index++
	}
	return normalized
}

// hasOutputFileValue reports whether argument is the output file flag in a form that leaves its value
// to the next argument: "-o", "--output-file", or a shorthand cluster ending in o such as "-do".
func hasOutputFileValue(argument string) bool {
	if argument == flagPrefix+outputFileFlagShorthand || argument == argumentTerminator+outputFileFlagName {
		return true
	}
	_, isCluster := shorthandClusterBeforeOutputFile(argument)
	return isCluster
}

// shorthandClusterBeforeOutputFile splits "-dao" into "-da" when the cluster ends with the output file shorthand.
func shorthandClusterBeforeOutputFile(argument string) (string, bool) {
	if len(argument) < 3 || strings.HasPrefix(argument, argumentTerminator) || !strings.HasPrefix(argument, flagPrefix) {
		return "", false
	}
	cluster := argument[len(flagPrefix):]
	if !strings.HasSuffix(cluster, outputFileFlagShorthand) {
		return "", false
	}
	for _, shorthand := range cluster {
		if (shorthand < 'a' || shorthand > 'z') && (shorthand < 'A' || shorthand > 'Z') {
			return "", false
		}
	}
	return argument[:len(argument)-len(outputFileFlagShorthand)], true
}
