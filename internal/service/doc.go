// Package service holds the business logic above the store contract:
// the demo config aggregate (assembly, activation, duplication,
// portable export) and the event bus that notifies UI sessions of
// config changes.
package service
