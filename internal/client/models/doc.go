// Package models defines the wire and domain types exchanged with the
// inventory backend.
package models
