package mappings

import "github.com/aretw0/recolor/pkg/domain"

// Default returns the built-in tables. The result is a fresh copy on every call.
func Default() domain.Tables {
	return domain.Tables{
		Styles: []domain.MappingEntry{
			{
				Key:         "73be81990bfe8323c4bf41429d3a5938ba154b4d",
				Name:        "Light/Text/Primary",
				StyleType:   "FILL",
				Description: "Gray 90",
				MappedKey:   "8383fb6335a6a6346b8e74636a60e3e891a19e4a",
			},
			{
				Key:         "5ed32ac26c65e0b349159f131e92043398848987",
				Name:        "Light/Text/Secondary",
				StyleType:   "FILL",
				Description: "Gray 60",
				MappedKey:   "0ef1d6e655c0134c28fbf7a1709593a9d0232c58",
			},
			{
				Key:         "ede0e3477c0481b632ca0df6b3f9af8b45219387",
				Name:        "Light/Border/Structure",
				StyleType:   "FILL",
				Description: "White",
				MappedKey:   "387f639cec263d078131258b32d894e3bf9a75c1",
			},
			{
				Key:         "dd1673ea83ca8bbd996f8d382124ac11c7ed87dd",
				Name:        "Background/card",
				StyleType:   "FILL",
				Description: "Blue 20",
				MappedKey:   "c4383e8fbac0ab0621d3cf1c67e151706959c092",
			},
		},
		Variables: []domain.MappingEntry{
			{Key: "843f1d2c2dc02487232f0232557cf5496ceaa3dc", MappedKey: "8383fb6335a6a6346b8e74636a60e3e891a19e4a"},
			{Key: "de1f68cce9a90c916d08d1ceabb95e84b3ce6f25", MappedKey: "0ef1d6e655c0134c28fbf7a1709593a9d0232c58"},
			// Self-mapped: resolves to the variable it is already bound to.
			{Key: "0ef1d6e655c0134c28fbf7a1709593a9d0232c58", MappedKey: "0ef1d6e655c0134c28fbf7a1709593a9d0232c58"},
		},
		Colors: []domain.MappingEntry{
			{Key: "#FFFFFF", MappedKey: "c4383e8fbac0ab0621d3cf1c67e151706959c092"},
		},
		Advanced: DefaultRules(),
	}
}

// DefaultRules returns the built-in advanced rules, all disabled.
func DefaultRules() []domain.AdvancedMappingEntry {
	return []domain.AdvancedMappingEntry{
		{
			ID:          "fill-ffffff-bgcard",
			Kind:        domain.RuleHex,
			Key:         "#303030",
			MappedKey:   "8383fb6335a6a6346b8e74636a60e3e891a19e4a",
			Label:       "fill color: #303030 → bg-card",
			Description: "Convert white background to bg-card variable (fill only)",
			Target:      domain.TargetFill,
		},
		{
			ID:          "fill-ffffff-bgcard222222222",
			Kind:        domain.RuleHex,
			Key:         "#303030",
			MappedKey:   "387f639cec263d078131258b32d894e3bf9a75c1",
			Label:       "stroke color: #303030 → bg-card",
			Description: "Convert white background to bg-card variable (fill only)",
			Target:      domain.TargetStroke,
		},
		{
			ID:        "fill-ffffff-bgcard2",
			Kind:      domain.RuleHex,
			Key:       "#FFFFFF",
			MappedKey: "c4383e8fbac0ab0621d3cf1c67e151706959c092",
			Label:     "fill color: #ffffff → bg-card2",
			Target:    domain.TargetFill,
		},
		{
			// The mapped key is not a library key and never imports.
			ID:        "stroke-ffffff-bgcard2",
			Kind:      domain.RuleHex,
			Key:       "#FFFFFF",
			MappedKey: "bg-card2-variable-id",
			Label:     "stroke color: #ffffff → bg-card2",
			Target:    domain.TargetStroke,
		},
		{
			ID:        "varid1-varid2-fill",
			Kind:      domain.RuleVariable,
			Key:       "2ac63ddb0040bc71a7a02568db8e214e2374e1ef",
			MappedKey: "0ef1d6e655c0134c28fbf7a1709593a9d0232c58",
			Label:     "variable D89: varid1 → varid2 (fill)",
			Target:    domain.TargetFill,
		},
		{
			ID:        "varid1-varid2-stroke",
			Kind:      domain.RuleVariable,
			Key:       "varid1",
			MappedKey: "varid2",
			Label:     "variable id: varid1 → varid2 (stroke)",
			Target:    domain.TargetStroke,
		},
	}
}
