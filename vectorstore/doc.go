// Package vectorstore defines the capability interface for the remote
// vector collection and the batching upserter that feeds it from the
// embedding pipeline. The concrete REST client lives in
// vectorstore/chroma.
package vectorstore
