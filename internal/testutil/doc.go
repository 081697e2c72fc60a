// Package testutil contains helpers used across tests to reduce boilerplate
// when building tree values and asserting listener behavior. They are not
// intended for production usage.
package testutil
