package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values        map[string]string
	args          []string
	defs          map[string]*OptionDef
	order         []string          // Definition order, for usage output
	shortMap      map[string]string // Maps short options to long options
	explicitlySet map[string]bool   // Tracks which options were explicitly set
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:        make(map[string]string),
		defs:          make(map[string]*OptionDef),
		shortMap:      make(map[string]string),
		explicitlySet: make(map[string]bool),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, description string) {
	p.defs[long] = &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
	}
	p.order = append(p.order, long)
	if short != "" {
		p.shortMap[short] = long
	}
	if defaultValue != "" {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments.
// Everything after a bare "--" is taken as a path, even if it starts with "-".
func (p *ParsedOptions) Parse(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			p.args = append(p.args, args[i+1:]...)
			return nil
		case strings.HasPrefix(arg, "--"):
			next, err := p.parseLongOption(arg, args, i)
			if err != nil {
				return err
			}
			i = next
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			next, err := p.parseShortOptions(arg, args, i)
			if err != nil {
				return err
			}
			i = next
		default:
			p.args = append(p.args, arg)
		}
	}
	return nil
}

// parseLongOption handles --option, --option=value and --option value.
// It returns the index of the last argument consumed.
func (p *ParsedOptions) parseLongOption(arg string, args []string, i int) (int, error) {
	optName := strings.TrimPrefix(arg, "--")
	optValue, hasValue := "", false
	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optName, optValue, hasValue = optName[:equalPos], optName[equalPos+1:], true
	}

	def, exists := p.defs[optName]
	if !exists {
		return i, fmt.Errorf("unknown option: --%s", optName)
	}

	if def.Type == OptionTypeBool {
		if !hasValue {
			return i, p.set(def, "true")
		}
		switch optValue {
		case "true", "1":
			return i, p.set(def, "true")
		case "false", "0":
			return i, p.set(def, "false")
		default:
			return i, fmt.Errorf("invalid boolean value for --%s: %s", optName, optValue)
		}
	}

	if !hasValue {
		if i+1 >= len(args) {
			return i, fmt.Errorf("option --%s requires a value", optName)
		}
		i++
		optValue = args[i]
	}
	return i, p.set(def, optValue)
}

// parseShortOptions handles -o, -o value and bundles like -vv0.
// A repeated int option counts its occurrences (-vvv is level 3).
func (p *ParsedOptions) parseShortOptions(arg string, args []string, i int) (int, error) {
	shortOpts := strings.TrimPrefix(arg, "-")

	counts := make(map[string]int)
	var seen []string
	for _, r := range shortOpts {
		short := string(r)
		if _, exists := p.shortMap[short]; !exists {
			return i, fmt.Errorf("unknown option: -%s", short)
		}
		if counts[short] == 0 {
			seen = append(seen, short)
		}
		counts[short]++
	}

	for _, short := range seen {
		def := p.defs[p.shortMap[short]]

		switch def.Type {
		case OptionTypeBool:
			p.values[def.Long] = "true"
			p.explicitlySet[def.Long] = true
		case OptionTypeInt:
			// -vvv repeats give the count; a single -j takes a following integer, else 1
			value := "1"
			if counts[short] > 1 {
				value = strconv.Itoa(counts[short])
			} else if next, ok := nextIntArg(args, i); ok {
				i++
				value = next
			}
			p.values[def.Long] = value
			p.explicitlySet[def.Long] = true
		case OptionTypeString:
			if len(shortOpts) > 1 {
				return i, fmt.Errorf("option -%s requires a value and cannot be combined", short)
			}
			if i+1 >= len(args) {
				return i, fmt.Errorf("option -%s requires a value", short)
			}
			i++
			if err := p.set(def, args[i]); err != nil {
				return i, err
			}
		}
	}

	return i, nil
}

// set stores a value after checking it fits the option type
func (p *ParsedOptions) set(def *OptionDef, value string) error {
	if def.Type == OptionTypeInt {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value for --%s: %s", def.Long, value)
		}
	}
	p.values[def.Long] = value
	p.explicitlySet[def.Long] = true
	return nil
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	return p.values[option] == "true"
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	return p.explicitlySet[option]
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// WriteUsage writes the option list in definition order
func (p *ParsedOptions) WriteUsage(w io.Writer) {
	for _, long := range p.order {
		def := p.defs[long]

		shortOpt := "    "
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString:
			valueDesc = "=VALUE"
		case OptionTypeInt:
			valueDesc = "=N"
		}

		fmt.Fprintf(w, "  %s--%s%s\n", shortOpt, def.Long, valueDesc)
		fmt.Fprintf(w, "        %s\n", def.Description)
	}
}

// nextIntArg returns args[i+1] when it is a plain integer
func nextIntArg(args []string, i int) (string, bool) {
	if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
		return "", false
	}
	if _, err := strconv.Atoi(args[i+1]); err != nil {
		return "", false
	}
	return args[i+1], true
}
