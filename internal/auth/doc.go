// Package auth authenticates callers and decides what they may touch.
//
// Identity comes from HS256 bearer tokens issued by an external provider
// sharing the configured secret; the token subject is the owner id. The
// package never stores credentials.
//
// Authorisation is ownership only. Every service operation calls
// Authorize with the caller, the operation and a description of the target
// record before doing anything else:
//
//   - anonymous callers get ErrUnauthenticated, for every operation
//   - list and top-level create are allowed (scope and owner come from the caller)
//   - retrieve, update, partial update and delete on a record that is
//     missing or foreign get ErrNotFound, never a permission error
//   - creating under a foreign parent gets ErrForbidden
package auth
