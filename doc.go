/*
Package recolor migrates hard-coded colors in a design document to design tokens.

It walks the selected nodes of a scene, and for every solid fill or stroke decides
which published variable the paint should be bound to. The decision runs through
three tiers, in order of precedence:

  - Advanced rules the operator enabled for this run (style, hex or variable matches).
  - The style table, keyed by the shared style applied to the node.
  - The variable table for paints already bound to a variable, and the color table
    for literal "#RRGGBB" paints.

Every variable key a run may need is imported up front. A key that fails to import
is reported to the operator and simply never matches; it does not abort the run.

# Architecture

The engine only talks to ports: the SceneGraph the host owns, the VariableImporter
for published tokens and the PaintBinder that produces bound paints. The in-memory
adapters read scenes and libraries from YAML or JSON files; the Redis adapter keeps a
shared library and the run lock for the HTTP server.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/recolor"
		"github.com/aretw0/recolor/pkg/adapters/memory"
		"github.com/aretw0/recolor/pkg/domain"
		"github.com/aretw0/recolor/pkg/runner"
	)

	func main() {
		library, err := memory.LoadLibrary("library.yaml")
		if err != nil {
			log.Fatal(err)
		}

		eng, err := recolor.New("scene.yaml", recolor.WithImporter(library))
		if err != nil {
			log.Fatal(err)
		}

		out, err := eng.Convert(context.Background(), domain.ConvertRequest{}, runner.NewJSONEmitter(os.Stdout))
		if err != nil {
			log.Printf("conversion ended with %s: %v", out.Status, err)
		}
	}
*/
package recolor
