/*
Package tracejson formats structured events as a stream of one-line
JSON objects.

Each event becomes exactly one object followed by one newline:

	{
		"timestamp": "2009-11-10T23:00:00.000000002Z",
		"level": "INFO",
		"fields": {"message": "some json test"},
		"target": "myapp/server",
		"span": {"answer": 42, "name": "leaf"},
		"spans": [{"name": "root"}, {"answer": 42, "name": "leaf"}]
	}

"fields" holds the event's own fields. With WithFlattenEvent(true)
those fields land in the root object instead.

"span" is the current span: its recorded fields plus its name. It is
controlled by WithCurrentSpan. "spans" is the whole chain of entered
spans, root first, controlled by WithSpanList. Neither appears when
the event fires outside any span.

WithMergeParentFields(true) appends every field of every span in the
chain to the event's fields, current span first. By default each
merged key is prefixed with the contributing span's name and a dot
(WithNamespaceParentFields); switching the prefix off can produce
repeated keys in one object, which is preserved as-is.

Fields recorded on a span accumulate: each FieldStore merge keeps
entries that were not re-supplied and overwrites ones that were.
Within any one field set, keys are emitted in lexicographic order.
*/
package tracejson
