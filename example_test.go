package recolor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/recolor"
	"github.com/aretw0/recolor/pkg/adapters/memory"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// ExampleNew_memory converts an in-memory scene with a single white rectangle.
func ExampleNew_memory() {
	white := domain.Paint{Type: domain.PaintSolid, Color: domain.RGB{R: 1, G: 1, B: 1}}
	scene, err := memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "card", Type: domain.KindRectangle, Fills: memory.PaintList(white), Strokes: memory.PaintList()},
	}})
	if err != nil {
		log.Fatal(err)
	}

	library := memory.NewLibrary(domain.Variable{Key: "c4383e8fbac0ab0621d3cf1c67e151706959c092"})
	tables := domain.Tables{
		Colors: []domain.MappingEntry{{Key: "#FFFFFF", MappedKey: "c4383e8fbac0ab0621d3cf1c67e151706959c092"}},
	}

	engine, err := recolor.New("", recolor.WithScene(scene), recolor.WithImporter(library), recolor.WithTables(tables))
	if err != nil {
		log.Fatal(err)
	}

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, ports.NopEmitter{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Status, out.Converted)
	// Output: complete 1
}
