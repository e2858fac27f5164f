// Package graph holds the bidirected assembly graph model shared by every stage:
// nodes with two complementary strands, id-keyed terminals, the round-scoped
// control messages exchanged between map and reduce, and the fatal error taxonomy.
//
// Nodes never hold pointers to each other. Adjacency is an arena of terminals
// keyed by node id, so cyclic graphs need no special lifetime handling.
package graph
