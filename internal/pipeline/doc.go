// Package pipeline runs the stages of notice generation in sequence.
//
// A generation run acquires the scan report text, parses it into entries,
// classifies the entries by license and optionally saves the classification
// to the history database. Each stage is a Step that receives the shared
// Run state and fills in its part of it.
package pipeline
