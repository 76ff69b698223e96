// clipinfo inspects character assets the viewer will load.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/charview/internal/assets"
	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/internal/engine/character"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "clips":
		cmdClips(args)
	case "check":
		cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`clipinfo - character asset inspector

Usage:
  clipinfo <command> [options]

Commands:
  clips <file.glb>...       List playable clips and their durations
  check [-root dir]         Verify the bundled models and textures exist

Examples:
  clipinfo clips models/robot.glb
  clipinfo check -root ./public`)
}

func cmdClips(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: clipinfo clips <file.glb>...")
		os.Exit(1)
	}

	failed := false
	for _, path := range args {
		clips, err := assets.ReadClips(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}

		fmt.Printf("%s (%d clips)\n", path, len(clips))
		for _, c := range clips {
			fmt.Printf("  %-16s %6.2fs\n", c.Name, c.Duration)
		}

		if missing := missingControlled(clips); len(missing) > 0 {
			fmt.Printf("  missing: %s\n", strings.Join(missing, ", "))
		}
	}

	if failed {
		os.Exit(1)
	}
}

// missingControlled lists the controller clips a model does not provide.
func missingControlled(clips []animation.Clip) []string {
	have := make(map[string]bool, len(clips))
	for _, c := range clips {
		have[c.Name] = true
	}
	var missing []string
	for _, name := range character.ClipNames() {
		if !have[name.String()] {
			missing = append(missing, name.String())
		}
	}
	return missing
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	root := fs.String("root", ".", "Asset root directory")
	fs.Parse(args)

	manager := assets.NewManager(*root)
	catalog := assets.DefaultCatalog()

	problems := 0
	report := func(kind, path string) {
		if _, err := manager.Resolve(path); err != nil {
			fmt.Printf("  MISSING %-8s %s\n", kind, path)
			problems++
			return
		}
		fmt.Printf("  ok      %-8s %s\n", kind, path)
	}

	for i := 0; i < catalog.Len(); i++ {
		path := catalog.Path(i)
		fmt.Printf("%s\n", assets.BaseName(path))
		report("model", path)
		if pair, ok := catalog.Textures(path); ok {
			report("back", pair.Back)
			report("floor", pair.Floor)
		}
	}

	if problems > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d files missing)\n", problems)
		os.Exit(1)
	}
}
