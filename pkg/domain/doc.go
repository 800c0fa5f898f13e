/*
Package domain contains the core domain models for the recolor engine.

It defines the scene-facing capabilities (Node, Paintable, Composite), the paint
values the engine rewrites, the mapping tables that drive resolution, and the
events and outcome of a conversion run. The package is kept free of I/O so that
hosts and adapters can depend on it without pulling in any transport.

# Key Entities

  - Paintable: a node exposing both a fill list and a stroke list.
  - Paint: a single fill or stroke; only SOLID paints are examined.
  - MappingEntry / AdvancedMappingEntry: lookup data and operator-toggleable rules.
  - Variable: an imported design token a paint can be bound to.
  - Event / Outcome: what a run reports to its caller.
*/
package domain
