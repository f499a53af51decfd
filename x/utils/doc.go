// Package utils has decorators that work for any message: panic recovery,
// request logging, savepoints and action tags.
package utils
