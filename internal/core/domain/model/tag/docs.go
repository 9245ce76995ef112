// Package tag models the fixed handling vocabulary (express, fragile, heavy, ...)
// that sellers attach to shipments.
package tag
