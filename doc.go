// Package credentials provides a credential management core: salted
// HMAC-SHA256 password digests, stateless HS256 bearer tokens and
// role gates, plus a bun backed user store and fiber HTTP handlers.
//
// Authentication:
//   - Authenticate is mounted on every route. Requests without an
//     Authorization header pass through anonymously so public routes can
//     share the chain; a header that is present must read "Bearer <token>".
//   - Verified claims are stored in the fiber locals under ClaimsLocalsKey
//     and in the request's user context (GetClaims, GetFiberClaims).
//
// Authorization:
//   - RequireAuthenticated rejects anonymous requests with ErrUnauthorized.
//   - RequireRole compares the token's role to a closed set of roles and
//     rejects mismatches with ErrForbidden.
//
// Identity management:
//   - IdentityManager runs registration, login, profile updates and the
//     administrative list and delete operations against the Users store.
//     Email uniqueness is enforced by a unique index; the store reports
//     conflicts as ErrDuplicateEmail.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter. Sinks run best-effort
//     (errors are logged) so you can forward to a database or queue without
//     blocking authentication.
package credentials
