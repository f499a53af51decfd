// Package ledgertest has mocks for transactions, handlers, decorators and
// authenticators, plus fixtures for keys and stores, to test extensions
// without an application around them.
package ledgertest
