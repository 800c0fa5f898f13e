// Package mappings ships the default lookup tables and reads table files.
//
// A table file is YAML or JSON:
//
//	styles:
//	  - key: 73be81990bfe8323c4bf41429d3a5938ba154b4d
//	    name: Light/Text/Primary
//	    mappedKey: 8383fb6335a6a6346b8e74636a60e3e891a19e4a
//	variables: []
//	colors:
//	  - key: "#FFFFFF"
//	    mappedKey: c4383e8fbac0ab0621d3cf1c67e151706959c092
//	advanced:
//	  - id: fill-303030-text-primary
//	    type: hex
//	    key: "#303030"
//	    mappedKey: 8383fb6335a6a6346b8e74636a60e3e891a19e4a
//	    target: fill
//
// Entries without mappedKey are kept for documentation and never applied.
package mappings
