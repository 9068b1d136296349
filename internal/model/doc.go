// Package model defines the core data structures used throughout notices.
//
// This package contains the following main types:
//   - PackageRef: An opaque "name@version" package identifier
//   - Entry: One parsed report line (package plus ordered licenses)
//   - Classification: Packages grouped into single-license and
//     multi-license (OR) buckets
//   - Diff: Differences between two classifications
//
// Classification is produced by the pure Classify function. The parser, the
// renderers and the history database all import this package.
package model
