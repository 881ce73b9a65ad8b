package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	heightFlagTypeName            = "int"
	invalidHeightValueFormat      = "%w: %s is not a non-negative integer"
	invalidConfiguredHeightFormat = "%w: %d is not a non-negative integer (configuration)"
)

type heightFlagValue struct {
	target *int
}

func (value *heightFlagValue) Set(input string) error {
	parsed, parseError := parseHeight(input)
	if parseError != nil {
		return parseError
	}
	*value.target = parsed
	return nil
}

func (value *heightFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.Itoa(defaultHeight)
	}
	return strconv.Itoa(*value.target)
}

func (value *heightFlagValue) Type() string {
	return heightFlagTypeName
}

// parseHeight accepts decimal integers greater than or equal to zero.
func parseHeight(input string) (int, error) {
	parsed, parseError := strconv.Atoi(strings.TrimSpace(input))
	if parseError != nil || parsed < 0 {
		return 0, fmt.Errorf(invalidHeightValueFormat, ErrInvalidHeight, input)
	}
	return parsed, nil
}

func validateConfiguredHeight(height int) error {
	if height < 0 {
		return fmt.Errorf(invalidConfiguredHeightFormat, ErrInvalidHeight, height)
	}
	return nil
}

func registerHeightFlag(flagSet *pflag.FlagSet, target *int) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultHeight
	flagSet.Var(&heightFlagValue{target: target}, heightFlagName, heightFlagDescription)
}
