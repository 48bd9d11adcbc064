// Package httpapi exposes the circulation use cases over HTTP with a chi router.
//
// Authentication happens in front of this service. The caller is identified by the
// X-Actor-ID and X-Actor-Role headers, and every response carries an X-Request-ID, either the
// one sent by the client or a generated one.
package httpapi
