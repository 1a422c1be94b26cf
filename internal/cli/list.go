package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christophertubbs/erdantic/pkg/adapters/manifest"
	"github.com/christophertubbs/erdantic/pkg/erd"

	// Registered so the framework listing reflects every built-in adapter.
	_ "github.com/christophertubbs/erdantic/pkg/adapters/gostruct"
)

// listCommand creates the list command for inspecting schemas and adapters.
func (c *CLI) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [schema.toml]",
		Short: "List registered frameworks, or the models in a schema",
		Long: `List the frameworks registered in the adapter registry.

With a schema file argument, list the models the schema declares along with
their fields and composition types instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.listFrameworks()
			}
			return c.listSchema(args[0])
		},
	}

	return cmd
}

// listFrameworks prints the registered framework identifiers in registration
// order.
func (c *CLI) listFrameworks() error {
	fmt.Println(StyleTitle.Render("Registered frameworks"))
	for _, id := range erd.Default().Frameworks() {
		printDetail("%s", id)
	}
	return nil
}

// listSchema prints the models and fields a schema declares.
func (c *CLI) listSchema(path string) error {
	schema, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", path, err)
	}

	fmt.Println(StyleTitle.Render("Schema " + schema.Name()))

	var fw manifest.Framework
	for _, name := range schema.Names() {
		decl, _ := schema.Model(name)
		model, err := fw.Adapt(decl)
		if err != nil {
			return err
		}

		printNewline()
		if desc := model.Description(); desc != "" {
			printKeyValue(model.Name(), StyleDim.Render(desc))
		} else {
			printKeyValue(model.Name(), "")
		}
		for _, f := range model.Fields() {
			printDetail("%-16s %s", f.Name(), f.Type().String())
		}
	}
	return nil
}
