package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/webclip"
)

// Run executes the collections command.
func (c *CollectionsCmd) Run(deps *Dependencies) error {
	collections, err := deps.Collections.ListCollections(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}

	if len(collections) == 0 {
		fmt.Fprintln(deps.Stdout, "No collections found.")
		return nil
	}

	for _, col := range collections {
		fmt.Fprintf(deps.Stdout, "%s  %s  (%d items)\n", col.ID, col.Name, col.ItemCount)
	}
	return nil
}

// Run executes the schema command.
func (c *SchemaCmd) Run(deps *Dependencies) error {
	schema, err := deps.Collections.FetchSchema(deps.Ctx, c.Collection)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}

	name := schema.ContentDisplayName
	if name == "" {
		name = schema.ContentKey
	}
	fmt.Fprintf(deps.Stdout, "%s  content  %s\n", schema.ContentKey, name)

	for _, p := range schema.Properties {
		line := fmt.Sprintf("%s  %s  %s", p.Key, p.Type, p.DisplayName)
		if len(p.Options) > 0 {
			line += "  [" + strings.Join(p.Options, ", ") + "]"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
