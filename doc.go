// Package auth implements a username/password authentication service:
// credential storage, bcrypt password hashing, JWT issuance and
// verification, and role-based access gating.
//
// Credential model:
//   - Users carry a unique username and email plus an opaque password hash.
//     Records are persisted via Bun; uniqueness is enforced by the datastore.
//   - Roles are reference data drawn from a closed set (user, admin,
//     moderator) and seeded once through fixtures. Users hold roles through
//     the user_roles association; every user ends up with at least the
//     default "user" role after registration.
//
// Tokens:
//   - Signin produces a signed, self-contained HS256 JWT whose subject is
//     the user id and whose expiry is 24 hours out. Tokens are never stored
//     or revoked server-side; they simply lapse at expiry.
//   - Role names travel in the token as authority strings ("admin" becomes
//     "ROLE_ADMIN"), the convention downstream access checks key off.
//
// The package is wired with explicit dependencies: repositories, the token
// service, and the authenticator are constructed once at process start and
// handed to the HTTP controller. See cmd/authd for the service binary.
package auth
