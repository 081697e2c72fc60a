// Package auth provides an in-memory identity store that accompanies the
// tree database: user records with unique uid, email and phone number, and
// HS256 signed custom tokens. It mirrors the user management surface of a
// hosted identity service closely enough for tests and local development.
package auth
