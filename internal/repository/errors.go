// Package repository contains the data access layer: one repo type per
// table, each over a shared *sql.DB pool.  This file defines sentinel error
// values reused across repositories so handlers can translate failures into
// HTTP responses without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint.  Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether the MySQL error is a duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
