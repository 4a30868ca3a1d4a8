// Package apispec provides the in-memory model of an HTTP API description
// and the providers that construct it.
//
// A Document owns an ordered set of Operations and a registry of named
// type schemas. Schemas form a recursive tree of SchemaNode values; named
// cross-references are by-name lookups into the registry rather than direct
// pointers, so cyclic type graphs are representable and every traversal
// carries an explicit visited set.
//
// Documents are built once, from a static file (LoadFile) or from a
// running application's self-description endpoint (LoadURL), and are
// read-only afterwards.
package apispec
