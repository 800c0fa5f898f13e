/*
Package ports defines the driven ports (interfaces) of the recolor engine.

These interfaces decouple the conversion core from the host that owns the scene,
the library that publishes variables, and the transport that carries events, so the
same engine runs against an in-memory scene in tests and a real host in production.

# Key Interfaces

  - SceneGraph: yields the current selection roots.
  - VariableImporter: imports a published variable by key.
  - PaintBinder: binds a paint channel to a variable, returning a new paint.
  - EventEmitter / Notifier: outbound events and user-facing notifications.
  - Locker: serializes conversion runs over one scene.
*/
package ports
