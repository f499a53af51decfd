/*
Package orm stores typed models in a flat key value store.

Every ModelBucket owns the keys starting with its name and a colon, so
"escrow:" followed by the big-endian id holds one escrow. A Sequence is a
counter kept in the same store as the models it numbers. Because both live
in the transaction store, a rejected transaction neither stores a model nor
consumes an id.
*/
package orm
