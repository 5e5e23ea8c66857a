// Package completions provides shell completion for gridclip flags.
package completions

import (
	"fmt"
	"strings"
	"sync"

	"gridclip/pkg/config"
	"gridclip/pkg/grid"

	"github.com/spf13/cobra"
)

type Completer struct {
	mu     sync.RWMutex
	fields map[string][]string
}

func NewCompleter() *Completer {
	return &Completer{fields: make(map[string][]string)}
}

// CompleteFieldNames completes the field names of the grid document given
// as the first argument.
func (c *Completer) CompleteFieldNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := c.fieldNames(args[0])
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) fieldNames(path string) ([]string, error) {
	c.mu.RLock()
	names, ok := c.fields[path]
	c.mu.RUnlock()
	if ok {
		return names, nil
	}

	doc, err := grid.Load(path)
	if err != nil {
		return nil, err
	}
	names = make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		names = append(names, fmt.Sprintf("%s\t%s", f.Name, f.Type))
	}

	c.mu.Lock()
	c.fields[path] = names
	c.mu.Unlock()
	return names, nil
}

func (c *Completer) CompleteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{
		"table\tHuman readable summary",
		"json\tIndented JSON",
		"yaml\tYAML document",
	}
	return filterPrefix(formats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteMatchMode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	modes := []string{
		"exact\tWhole name, ignoring case",
		"contains\tSubstring, ignoring case",
		"regex\tRegular expression",
		"fuzzy\tCharacters in order",
	}
	return filterPrefix(modes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteStoreDriver(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	drivers := []string{
		config.DriverSQLite + "\tPersistent, shared between processes",
		config.DriverMemory + "\tProcess local, for testing",
	}
	return filterPrefix(drivers, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteConfigKeys completes the key argument of "config set".
func (c *Completer) CompleteConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(config.Keys(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterPrefix(items []string, prefix string) []string {
	result := []string{}
	for _, item := range items {
		name := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func RegisterCompletions(rootCmd *cobra.Command) {
	completer := NewCompleter()

	_ = rootCmd.RegisterFlagCompletionFunc("format", completer.CompleteFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("store", completer.CompleteStoreDriver)

	for _, name := range []string{"copy", "paste"} {
		sub, _, err := rootCmd.Find([]string{name})
		if err != nil || sub == nil || sub == rootCmd {
			continue
		}
		_ = sub.RegisterFlagCompletionFunc("col", completer.CompleteFieldNames)
		if sub.Flags().Lookup("fields") != nil {
			_ = sub.RegisterFlagCompletionFunc("fields", completer.CompleteFieldNames)
			_ = sub.RegisterFlagCompletionFunc("match", completer.CompleteMatchMode)
		}
	}

	if setCmd, _, err := rootCmd.Find([]string{"config", "set"}); err == nil && setCmd != nil {
		setCmd.ValidArgsFunction = completer.CompleteConfigKeys
	}
}
