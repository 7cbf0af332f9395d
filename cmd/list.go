package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured projects",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	names, err := config.ListProjects()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No projects yet. Create one with: arbor init <name>")
		return nil
	}

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		project, err := config.LoadProject(name)
		if err != nil {
			fmt.Printf("  %s  %s\n", color.RedString("%-*s", width, name), err)
			continue
		}
		fmt.Printf("  %s  %s\n", color.GreenString("%-*s", width, name), project.Root)
	}
	return nil
}
