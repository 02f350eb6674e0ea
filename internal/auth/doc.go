// Package auth decides who may run admin-only commands.
//
// The gateway has one administrator account, configured as a username and an
// Argon2id PHC hash. A successful login yields an HS256 JWT whose role claim
// maps to a fixed permission set; the command:admin permission is what makes
// a request "admin" for the dispatcher. Requests without a token run as a
// plain user.
package auth
