// Command hookforge is a diagnostic inspector for a hook manifest: it loads
// a YAML declaration of hooks and taps, builds them in a hookforge.HookSet,
// and prints the resolved tap order and interceptor registration order for
// debugging a pipeline wiring. It is a tool around the library, never a
// dependency of pkg/hook or pkg/dispatch, grounded on cmd/gdl's flag-based
// CLI (no cobra/kingpin, matching the teacher's own choice).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hookforge/hookforge"
	"github.com/hookforge/hookforge/pkg/dispatch"
	"github.com/hookforge/hookforge/pkg/hook"
	"github.com/hookforge/hookforge/pkg/manifest"
)

const appName = "hookforge"

func main() {
	var (
		manifestPath = flag.String("manifest", "", "path to a hook manifest YAML file")
		showHelp     = flag.Bool("help", false, "show usage")
	)
	flag.Parse()

	if *showHelp || *manifestPath == "" {
		printUsage()
		if *manifestPath == "" && !*showHelp {
			os.Exit(2)
		}
		return
	}

	if err := run(*manifestPath); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "%s inspects a hook manifest and prints resolved tap order.\n\n", appName)
	fmt.Fprintf(os.Stderr, "Usage:\n  %s -manifest path/to/hooks.yaml\n", appName)
}

func run(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	set := hookforge.NewHookSet(nil)

	for _, decl := range m.Hooks {
		f := hookforge.Flavor(decl.Flavor)
		if f == "" {
			f = hookforge.FlavorBasic
		}

		h := set.MustNew(decl.Name, decl.Args, f)

		for _, t := range decl.Taps {
			opts := hook.TapOptions{Name: t.Name, Before: t.Before, Stage: hook.Stage(t.Stage)}
			noop := dispatch.SyncFunc(func(args []interface{}) (interface{}, error) { return nil, nil })
			if err := h.Tap(opts, noop); err != nil {
				return fmt.Errorf("hook %q: tap %q: %w", decl.Name, t.Name, err)
			}
		}
	}

	for _, name := range set.Names() {
		h, _ := set.Get(name)
		fmt.Printf("hook %q (args=%v)\n", name, h.Args)
		for i, tap := range h.Taps() {
			fmt.Printf("  [%d] %-20s stage=%-4d before=%v\n", i, tap.Name, tap.Stage, tap.Before)
		}
		for i, interceptor := range h.Interceptors() {
			fmt.Printf("  interceptor[%d] register=%v call=%v tap=%v loop=%v\n",
				i, interceptor.Register != nil, interceptor.Call != nil,
				interceptor.Tap != nil, interceptor.Loop != nil)
		}
	}

	return nil
}
