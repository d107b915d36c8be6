package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "toggle"
	toggleFlagTrueLiteral    = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	errorInvalidToggleFormat = "invalid value %q for --%s; accepted values: %s"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleFlagValue is a boolean flag that also accepts a separate literal
// argument, so "--clipboard no" works like "--clipboard=false".
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, known := toggleFlagLiterals[normalized]
	if !known {
		return fmt.Errorf(errorInvalidToggleFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return "false"
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	*target = false
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = "false"
		registered.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// toggleFlagPointer returns the flag value when it was set on the command line and nil otherwise.
func toggleFlagPointer(command *cobra.Command, name string, value bool) *bool {
	if !command.Flags().Changed(name) {
		return nil
	}
	return &value
}

// normalizeToggleArguments joins "--flag literal" pairs into "--flag=literal"
// for every toggle flag of command and its children.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName := strings.TrimPrefix(currentArgument, "--")
		_, isToggle := toggleNames[flagName]
		if isToggle && strings.HasPrefix(currentArgument, "--") && index+1 < len(arguments) {
			literal := strings.ToLower(strings.TrimSpace(arguments[index+1]))
			if _, valid := toggleFlagLiterals[literal]; valid {
				normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, arguments[index+1]))
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == toggleFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
