package schema

import (
	"fmt"
	"strings"
)

// ValidationError is the closed taxonomy of structural problems a
// schema or package can have, mirroring the invariants of §3.
type ValidationError struct {
	Kind    ValidationKind
	Detail  string
}

// ValidationKind distinguishes the ValidationError variants.
type ValidationKind string

const (
	ErrEmptyPackageVersion ValidationKind = "empty_package_version"
	ErrEmptyCommandName    ValidationKind = "empty_command_name"
	ErrDuplicateCommand    ValidationKind = "duplicate_command"
	ErrInvalidShortFlag    ValidationKind = "invalid_short_flag"
	ErrInvalidLongFlag     ValidationKind = "invalid_long_flag"
	ErrMissingFlagName     ValidationKind = "missing_flag_name"
	ErrDuplicateFlag       ValidationKind = "duplicate_flag"
	ErrDuplicateSubcommand ValidationKind = "duplicate_subcommand"
	ErrSubcommandCycle     ValidationKind = "subcommand_cycle"
)

func (e ValidationError) Error() string {
	switch e.Kind {
	case ErrEmptyPackageVersion:
		return "package version cannot be empty"
	case ErrEmptyCommandName:
		return "schema command cannot be empty"
	case ErrDuplicateCommand:
		return fmt.Sprintf("duplicate command in package: %s", e.Detail)
	case ErrInvalidShortFlag:
		return fmt.Sprintf("invalid short flag format: %s", e.Detail)
	case ErrInvalidLongFlag:
		return fmt.Sprintf("invalid long flag format: %s", e.Detail)
	case ErrMissingFlagName:
		return "flag must define short or long form"
	case ErrDuplicateFlag:
		return fmt.Sprintf("duplicate flag in scope: %s", e.Detail)
	case ErrDuplicateSubcommand:
		return fmt.Sprintf("duplicate subcommand in scope: %s", e.Detail)
	case ErrSubcommandCycle:
		return fmt.Sprintf("subcommand cycle detected at path: %s", e.Detail)
	default:
		return fmt.Sprintf("validation error: %s: %s", e.Kind, e.Detail)
	}
}

// ValidatePackage validates a full schema package: an empty version
// string, duplicate command names, and each schema individually.
func ValidatePackage(p *Package) []ValidationError {
	if strings.TrimSpace(p.Version) == "" {
		return []ValidationError{{Kind: ErrEmptyPackageVersion}}
	}

	seen := make(map[string]bool)
	for _, s := range p.Schemas {
		if seen[s.Command] {
			return []ValidationError{{Kind: ErrDuplicateCommand, Detail: s.Command}}
		}
		seen[s.Command] = true
		if errs := ValidateSchema(&s); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

// ValidateSchema validates a command schema: empty command names,
// invalid flag formats, duplicate flags, duplicate subcommands, and
// subcommand cycles.
func ValidateSchema(s *CommandSchema) []ValidationError {
	if strings.TrimSpace(s.Command) == "" {
		return []ValidationError{{Kind: ErrEmptyCommandName}}
	}

	if errs := validateFlags(s.GlobalFlags); len(errs) > 0 {
		return errs
	}

	path := []string{s.Command}
	return validateSubcommands(s.Subcommands, path)
}

func validateSubcommands(subs []SubcommandSchema, path []string) []ValidationError {
	seen := make(map[string]bool)
	for _, sub := range subs {
		name := strings.TrimSpace(sub.Name)
		if name == "" {
			return []ValidationError{{Kind: ErrDuplicateSubcommand, Detail: "<empty>"}}
		}
		if seen[name] {
			return []ValidationError{{Kind: ErrDuplicateSubcommand, Detail: name}}
		}
		seen[name] = true

		for _, segment := range path {
			if segment == name {
				cyclePath := strings.Join(append(append([]string{}, path...), name), " ")
				return []ValidationError{{Kind: ErrSubcommandCycle, Detail: cyclePath}}
			}
		}

		if errs := validateFlags(sub.Flags); len(errs) > 0 {
			return errs
		}

		nextPath := append(append([]string{}, path...), name)
		if errs := validateSubcommands(sub.Subcommands, nextPath); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

func validateFlags(flags []FlagSchema) []ValidationError {
	seen := make(map[string]bool)
	for _, flag := range flags {
		if flag.Short == "" && flag.Long == "" {
			return []ValidationError{{Kind: ErrMissingFlagName}}
		}

		if flag.Short != "" {
			if !strings.HasPrefix(flag.Short, "-") || strings.HasPrefix(flag.Short, "--") || len(flag.Short) < 2 {
				return []ValidationError{{Kind: ErrInvalidShortFlag, Detail: flag.Short}}
			}
			if seen[flag.Short] {
				return []ValidationError{{Kind: ErrDuplicateFlag, Detail: flag.Short}}
			}
			seen[flag.Short] = true
		}

		if flag.Long != "" {
			if !strings.HasPrefix(flag.Long, "--") || len(flag.Long) < 3 {
				return []ValidationError{{Kind: ErrInvalidLongFlag, Detail: flag.Long}}
			}
			if seen[flag.Long] {
				return []ValidationError{{Kind: ErrDuplicateFlag, Detail: flag.Long}}
			}
			seen[flag.Long] = true
		}
	}
	return nil
}
