package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// PrefixCommand identifies one recognized "!" command
type PrefixCommand string

const (
	PrefixHelp         PrefixCommand = "help"
	PrefixDisplayLinks PrefixCommand = "display-links"
	PrefixCategorized  PrefixCommand = "categorized-links"
	PrefixDelete       PrefixCommand = "delete"
	PrefixRestore      PrefixCommand = "restore"
	PrefixExclude      PrefixCommand = "exclude"
	PrefixUnexclude    PrefixCommand = "unexclude"
	PrefixListExcluded PrefixCommand = "list-excluded"
)

// prefixTable maps every recognized command word (lowercase, without the
// leading "!") to its command. Aliases map to the same command.
var prefixTable = map[string]PrefixCommand{
	"help":              PrefixHelp,
	"commands":          PrefixHelp,
	"display-links":     PrefixDisplayLinks,
	"categorized-links": PrefixCategorized,
	"delete":            PrefixDelete,
	"restore":           PrefixRestore,
	"exclude":           PrefixExclude,
	"unexclude":         PrefixUnexclude,
	"list-excluded":     PrefixListExcluded,
}

// Invocation is a parsed prefix command with its arguments
type Invocation struct {
	Command PrefixCommand
	Args    []string
}

// ParseInvocation parses message content into a prefix command invocation.
// The second return value distinguishes three cases for the caller:
//   - (inv, true): a recognized command
//   - (nil, true): "!"-prefixed but unrecognized, caller should hint at !help
//   - (nil, false): not a prefix command at all, falls through to classification
func ParseInvocation(content string) (*Invocation, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "!") {
		return nil, false
	}

	fields := strings.Fields(trimmed)
	word := strings.ToLower(strings.TrimPrefix(fields[0], "!"))
	cmd, ok := prefixTable[word]
	if !ok {
		return nil, true
	}
	return &Invocation{Command: cmd, Args: fields[1:]}, true
}

// LinkID extracts the first numeric argument, for !delete and !restore
func (inv *Invocation) LinkID() (int64, bool) {
	for _, arg := range inv.Args {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// HasFlag reports whether the given flag (e.g. "-d") is among the arguments
func (inv *Invocation) HasFlag(flag string) bool {
	for _, arg := range inv.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

var chatIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ChatID extracts the first plausible chat identifier argument,
// for !exclude and !unexclude
func (inv *Invocation) ChatID() (string, bool) {
	for _, arg := range inv.Args {
		if chatIDPattern.MatchString(arg) {
			return arg, true
		}
	}
	return "", false
}

// HelpTopic returns the command word a !help invocation asks about, if any
func (inv *Invocation) HelpTopic() string {
	if len(inv.Args) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(inv.Args[0], "!"))
}
