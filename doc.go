// Package vantage is a durable similarity-search index over a user-supplied
// metric space: it stores (key, value) pairs on a pluggable byte-oriented
// backend and answers range queries (all pairs within a distance of a
// probe) and k-nearest-neighbor queries.
//
// Index wraps a private ball-tree engine; callers never see the tree
// directly. Construct one with Open, add data with AddBatch, and query with
// KnnSearch or RangeSearch.
package vantage
