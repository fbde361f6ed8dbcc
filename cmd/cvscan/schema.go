package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentwire/cvscan/internal/profile"
	"github.com/talentwire/cvscan/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and validate field schemas",
}

var schemaShowCmd = &cobra.Command{
	Use:   "show [specialty]",
	Short: "Print the built-in schema for a specialty",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specialty := "electricista"
		if len(args) == 1 {
			specialty = args[0]
		}
		source := schema.DefaultSchema(specialty)
		if _, err := schema.Compile(source); err != nil {
			return err
		}
		fmt.Print(string(source))
		return nil
	},
}

var schemaValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Compile a schema file and report the first error",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		cs, err := schema.Compile(data)
		if err != nil {
			return err
		}
		fmt.Printf("ok: versión %d, %d campos\n", cs.Version(), len(cs.FieldNames()))
		for _, name := range cs.FieldNames() {
			kind, _ := cs.Kind(name)
			fmt.Printf("  %s: %s\n", name, kind)
		}
		return nil
	},
}

var schemaSpecialtiesCmd = &cobra.Command{
	Use:   "specialties",
	Short: "List built-in hiring profiles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(profile.Specialties(), "\n"))
	},
}

func init() {
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaValidateCmd)
	schemaCmd.AddCommand(schemaSpecialtiesCmd)
}
