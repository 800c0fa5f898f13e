// Package memory provides in-process implementations of the recolor ports:
// a document-backed scene, a variable library, the paint binder and a run locker.
// They back the CLI and serve as reference hosts in tests.
package memory
