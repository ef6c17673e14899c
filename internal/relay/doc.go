// Package relay implements the proxy HTTP surface between the widget
// clients and the Spotify Web API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// [AuthHandler] serves the OAuth authorization-code flow: /login issues a
// state nonce in a short-lived cookie and redirects to Spotify; /callback
// validates the returned state against the cookie, exchanges the code,
// and redirects to the frontend with a success or error query flag.
//
// [DataHandler] serves the three read-only widget resources. Each request
// runs the credential manager's lazy-refresh gate; an absent credential
// is a 401, any upstream failure a 500, with no retries on either.
//
// [HealthHandler] reports liveness and whether a credential is held.
package relay
