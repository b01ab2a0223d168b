// Package api exposes the REST surface of the KeepSafe server: auth,
// journal entries, presigned uploads, reactions, comments, friendships and
// push notification management. Routing is gin; authenticated routes carry
// the user id resolved from the bearer token in the request context.
package api
