// Package handler exposes the demo config aggregate service over HTTP
// and provides the middleware stack shared by every listener. Raw
// store operations live in store/httpapi; this package covers the
// operations with business rules behind them (activation, duplication,
// portable export).
package handler
