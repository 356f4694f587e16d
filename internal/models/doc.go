// package models defines the fixed record shapes produced by extraction
// and consumed by the storage sink.
//
// Every record is an immutable snapshot of remote state at fetch time:
// a re-fetch produces a new value that replaces the old one by natural
// key at the sink. Nested collections (genres, markets) are boxed as
// JSON text so the tabular sink never has to model them natively.
package models
