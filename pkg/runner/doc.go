/*
Package runner connects the conversion engine to byte streams.

It is the bridge between the engine and the outside world: outbound events are written
as NDJSON (JSONEmitter) for programs, or as colored text (TextEmitter) for people, and
inbound "convert" messages are read line by line from any reader (Listen).

# Wire format

Requests, one JSON object per line:

	{"type":"convert","payload":{"advancedRules":[]}}

Events, one JSON object per line:

	{"type":"nodes-found","payload":{"total":12}}
	{"type":"progress","payload":{"message":"Processing node 10/12... (Card)"}}
	{"type":"complete"}

# Usage

	emitter := runner.NewJSONEmitter(os.Stdout)
	if err := runner.Listen(ctx, os.Stdin, engine, emitter); err != nil {
		log.Fatal(err)
	}
*/
package runner
