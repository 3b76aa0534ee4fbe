// Package annotator provides the linguistic annotators behind notes.Annotator:
// a local one built on github.com/jdkato/prose/v2 and a gRPC client and server
// pair that run annotation in a separate process.
package annotator
