// Package notifyapi exposes the notification center over HTTP: listing,
// read state, deletion, staff messages and the live event stream.
//
// Every route requires a caller identity. By default it is taken from the
// X-User-ID header set by the authenticating gateway; WithIdentity plugs in
// another source. Responses use a {"data", "meta", "error"} envelope.
package notifyapi
