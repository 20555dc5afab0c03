// Package semschema manages project schemas as a pair of RDF graphs:
// a SHACL constraint graph that validation engines consume, and an OWL
// inference graph that reasoners consume. The two graphs always
// describe the same model; semschema keeps them consistent by deriving
// both from a single in-memory representation and writing them
// together.
//
// # Architecture
//
// The module is organized around a small set of packages:
//
//   - model: the schema entities. Property carries SHACL-style
//     restrictions (datatype, cardinality, value constraints) and
//     ResourceClass binds properties with per-class cardinality and
//     ordering. Restrictions cross-check against each other so an
//     inconsistent shape is rejected before it is ever staged.
//
//   - datamodel: the stateful manager. A DataModel loads a project's
//     graphs from the store, applies staged operations (add or remove
//     properties and classes, attach or detach bindings, inheritance
//     edits), validates the whole model, and commits both graphs
//     atomically. Commits diff against the last loaded snapshot and
//     apply only the delta; a failure after the first graph write
//     rolls back with inverse deltas.
//
//   - store: the graph store contract. Gateway is the interface the
//     DataModel drives; natsstore implements it over NATS
//     request/reply and memstore provides an in-memory implementation
//     for tests.
//
//   - iri, xsd, vocabulary: the RDF plumbing. IRI parsing with prefix
//     maps, typed literals, and the RDF/RDFS/OWL/SHACL terms the
//     serializer emits.
//
//   - errors: the shared error taxonomy. Every failure carries a kind
//     (unknown property, cardinality conflict, cyclic inheritance,
//     partial commit, and so on) and classifies as transient, invalid,
//     or fatal, so callers can decide between retrying, fixing input,
//     and escalating.
//
// Supporting packages (config, metric, natsclient, pkg/retry) provide
// configuration loading, Prometheus instrumentation, the resilient
// NATS connection, and retry with backoff.
//
// # Graph naming
//
// For a project named "books", the constraint graph is "books:shacl"
// and the inference graph is "books:onto". Node names inside the
// constraint graph append a "Shape" suffix to the entity IRI.
//
// # Typical use
//
//	gateway := natsstore.New(client)
//	dm := datamodel.New(gateway, "books")
//	if err := dm.Load(ctx); err != nil { ... }
//	if err := dm.AddProperty(titleProp); err != nil { ... }
//	if err := dm.Commit(ctx); err != nil { ... }
package semschema
