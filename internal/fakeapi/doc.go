// Package fakeapi is an in-memory implementation of the inventory backend
// used by integration tests and by cmd/fakeserver for local development.
//
// It keeps users, one-time codes and a seeded catalogue in memory, issues
// HS256 access tokens carrying the FirstLogin claim and answers the list
// endpoints with skip/take/days paging and a totalCount.
package fakeapi
