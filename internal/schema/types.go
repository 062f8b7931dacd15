// Package schema defines the command schema data model: the typed
// description of a CLI tool's interface that the extraction pipeline
// produces, plus the diagnostics that travel alongside it.
package schema

import "sort"

// SchemaContractVersion is the wire-format version stamped onto every
// CommandSchema and SchemaPackage this module produces.
const SchemaContractVersion = "1.0.0"

// Source identifies how a CommandSchema was obtained.
type Source string

const (
	SourceHelpCommand Source = "HelpCommand"
	SourceManPage     Source = "ManPage"
	SourceBootstrap   Source = "Bootstrap"
	SourceLearned     Source = "Learned"
)

// CommandSchema is the structured description of a single command's
// interface: its global flags, positional arguments, and recursively
// nested subcommands.
type CommandSchema struct {
	SchemaVersion           string             `json:"schema_version,omitempty"`
	Command                 string             `json:"command"`
	Description             string             `json:"description,omitempty"`
	GlobalFlags             []FlagSchema       `json:"global_flags"`
	Subcommands             []SubcommandSchema `json:"subcommands"`
	Positional              []ArgSchema        `json:"positional"`
	Source                  Source             `json:"source"`
	Confidence              float64            `json:"confidence"`
	Version                 string             `json:"version,omitempty"`
	ResolvedExecutableBase  string             `json:"resolved_executable_base,omitempty"`
}

// NewCommandSchema returns a CommandSchema with the contract version
// populated and empty slices rather than nil, so serialization always
// emits "[]" instead of "null".
func NewCommandSchema(command string, source Source) CommandSchema {
	return CommandSchema{
		SchemaVersion: SchemaContractVersion,
		Command:       command,
		GlobalFlags:   []FlagSchema{},
		Subcommands:   []SubcommandSchema{},
		Positional:    []ArgSchema{},
		Source:        source,
	}
}

// Sort orders flags, subcommands (and their aliases), and leaves
// positional order untouched, per the ordering guarantees in §5.
func (c *CommandSchema) Sort() {
	sortFlags(c.GlobalFlags)
	sortSubcommands(c.Subcommands)
	for i := range c.Subcommands {
		c.Subcommands[i].Sort()
	}
}

// FindGlobalFlag returns the global flag matching the given short or
// long identifier (e.g. "-v" or "--verbose"), or nil.
func (c *CommandSchema) FindGlobalFlag(identifier string) *FlagSchema {
	for i := range c.GlobalFlags {
		if c.GlobalFlags[i].Matches(identifier) {
			return &c.GlobalFlags[i]
		}
	}
	return nil
}

// FindSubcommand returns the subcommand matching the given name or
// alias, or nil.
func (c *CommandSchema) FindSubcommand(name string) *SubcommandSchema {
	for i := range c.Subcommands {
		if c.Subcommands[i].Matches(name) {
			return &c.Subcommands[i]
		}
	}
	return nil
}

// FlagSchema describes one flag: its forms, whether it takes a value,
// its semantic type, and its relationships to other flags.
type FlagSchema struct {
	Short         string    `json:"short,omitempty"`
	Long          string    `json:"long,omitempty"`
	ValueType     ValueType `json:"value_type"`
	TakesValue    bool      `json:"takes_value"`
	Description   string    `json:"description,omitempty"`
	Multiple      bool      `json:"multiple"`
	ConflictsWith []string  `json:"conflicts_with"`
	Requires      []string  `json:"requires"`
}

// Boolean returns a FlagSchema for a boolean switch.
func Boolean(short, long string) FlagSchema {
	return FlagSchema{
		Short:         short,
		Long:          long,
		ValueType:     ValueType{Tag: TagBool},
		TakesValue:    false,
		ConflictsWith: []string{},
		Requires:      []string{},
	}
}

// WithValue returns a FlagSchema that takes a value of the given type.
func WithValue(short, long string, vt ValueType) FlagSchema {
	return FlagSchema{
		Short:         short,
		Long:          long,
		ValueType:     vt,
		TakesValue:    true,
		ConflictsWith: []string{},
		Requires:      []string{},
	}
}

// CanonicalName returns the long form if set, otherwise the short form.
func (f FlagSchema) CanonicalName() string {
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

// Matches reports whether identifier names this flag by short or long form.
func (f FlagSchema) Matches(identifier string) bool {
	return (f.Short != "" && f.Short == identifier) || (f.Long != "" && f.Long == identifier)
}

func sortFlags(flags []FlagSchema) {
	sort.SliceStable(flags, func(i, j int) bool {
		li, lj := flags[i].Long, flags[j].Long
		if li != lj {
			if li == "" {
				return false
			}
			if lj == "" {
				return true
			}
			return li < lj
		}
		return flags[i].Short < flags[j].Short
	})
}

// ArgSchema describes a positional argument.
type ArgSchema struct {
	Name        string    `json:"name"`
	ValueType   ValueType `json:"value_type"`
	Required    bool      `json:"required"`
	Multiple    bool      `json:"multiple"`
	Description string    `json:"description,omitempty"`
}

// SubcommandSchema describes a nested subcommand.
type SubcommandSchema struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Flags        []FlagSchema       `json:"flags"`
	Positional   []ArgSchema        `json:"positional"`
	Subcommands  []SubcommandSchema `json:"subcommands"`
	Aliases      []string           `json:"aliases"`
}

// NewSubcommandSchema returns a SubcommandSchema with empty slices
// rather than nil.
func NewSubcommandSchema(name string) SubcommandSchema {
	return SubcommandSchema{
		Name:        name,
		Flags:       []FlagSchema{},
		Positional:  []ArgSchema{},
		Subcommands: []SubcommandSchema{},
		Aliases:     []string{},
	}
}

// Matches reports whether name is this subcommand's name or one of its aliases.
func (s SubcommandSchema) Matches(name string) bool {
	if s.Name == name {
		return true
	}
	for _, alias := range s.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// Sort orders this subcommand's flags, aliases, and nested subcommands.
func (s *SubcommandSchema) Sort() {
	sortFlags(s.Flags)
	sort.Strings(s.Aliases)
	sortSubcommands(s.Subcommands)
	for i := range s.Subcommands {
		s.Subcommands[i].Sort()
	}
}

func sortSubcommands(subs []SubcommandSchema) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Name < subs[j].Name
	})
}
