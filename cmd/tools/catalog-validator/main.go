// cmd/tools/catalog-validator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"activities-service/pkg/catalog"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", "configs/activity-catalog.json", "Path to catalog file")

	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	showPath := showCmd.String("path", "configs/activity-catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := catalog.Load(*validatePath)
		if err != nil {
			fmt.Printf("Catalog invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog valid: %d activities\n", len(cat.Activities))

	case "show":
		showCmd.Parse(os.Args[2:])
		cat, err := catalog.Load(*showPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		for _, act := range cat.Activities {
			fmt.Printf("%-24s %2d/%2d participants  %s\n",
				act.Name, len(act.Participants), act.MaxParticipants, act.Schedule)
		}

	default:
		help()
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: catalog-validator <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  validate  -path <file>   Schema-validate a catalog file")
	fmt.Println("  show      -path <file>   Print a catalog summary")
}
