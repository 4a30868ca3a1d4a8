// Package specerrors provides structured error types for specgate.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the three fatal
// input-validation failures the engine can surface:
//
//   - LoadError: a document source is malformed or unreachable
//   - ReferenceError: a document references an undefined type name
//   - DepthError: a reference chain exceeds the configured maximum depth
//
// All three abort a run before or during model construction. Once both
// documents are loaded and resolved, comparison itself is total and never
// returns an error.
//
// # Usage with errors.Is
//
//	doc, err := apispec.LoadFile("api.json")
//	if err != nil {
//	    if errors.Is(err, specerrors.ErrDocumentLoad) {
//	        // malformed or unreachable input
//	    }
//	}
package specerrors
