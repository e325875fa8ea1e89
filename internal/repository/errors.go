// Package repository implements the persistence gateway over MySQL.
// This file defines error values reused across repositories.  These
// sentinels let handlers distinguish failure scenarios without
// inspecting SQL errors.  Domain-level conditions (not-found rows,
// capacity shortfalls, confirmation-code collisions) use the sentinels
// declared in the booking package so the engine never has to import
// this one.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// booking they do not own.  Handlers translate it into the same 404 a
// missing booking produces, so callers cannot enumerate which IDs
// exist.
var ErrForbidden = errors.New("forbidden")
