// Command quarry resolves the dependents of one binary from workspace
// manifests and prints the result as an indented tree.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/quarrybuild/quarry/pkg/dependents"
	"github.com/quarrybuild/quarry/pkg/registry"
	"github.com/quarrybuild/quarry/pkg/textgraph"
)

func main() {
	workspace := flag.String("workspace", ".", "Directory containing scope manifests")
	target := flag.String("target", "", "Canonical key of the binary to resolve, e.g. :app:main:debug")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *target == "" {
		fmt.Fprintln(os.Stderr, "usage: quarry -workspace <dir> -target <binary key>")
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	reg, err := registry.NewLoader(*workspace, log).Load()
	if err != nil {
		log.Fatalf("Failed to load workspace: %v", err)
	}

	binary, ok := reg.FindBinary(*target)
	if !ok {
		log.Fatalf("Unknown binary %q", *target)
	}

	results, supported, err := dependents.NewResolver(reg).ResolveDependents(binary)
	if err != nil {
		var cycleErr *dependents.CircularDependencyError
		if errors.As(err, &cycleErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Fatalf("Resolution failed: %v", err)
	}
	if !supported {
		log.Fatalf("No resolution strategy for binary %q", *target)
	}

	printTree(*target, results)
}

// printTree renders the result forest rooted at the query target.
func printTree(target string, results []*dependents.ResolvedResult) {
	root := &dependents.ResolvedResult{Children: results}
	renderer := textgraph.Renderer[*dependents.ResolvedResult]{
		Label: func(node *dependents.ResolvedResult) string {
			if node == root {
				return target
			}
			label := node.ID.String()
			if node.TestSuite {
				label += " (test suite)"
			}
			if !node.Buildable {
				label += " (not buildable)"
			}
			return label
		},
		Key: func(node *dependents.ResolvedResult) string {
			if node == root {
				return target
			}
			return fmt.Sprintf("%p", node)
		},
		Edges: func(node *dependents.ResolvedResult) []*dependents.ResolvedResult {
			return node.Children
		},
	}
	renderer.RenderTo(root, os.Stdout)
}
