// Package client is the authenticated request layer between the services
// and the inventory backend.
//
// # Overview
//
// Every call goes through Doer.Do, which
//  1. reads the access token from a TokenSource and fails with
//     common.ErrUnauthenticated, without network I/O, when it is absent
//     (anonymous requests such as login skip this step);
//  2. sends the request as JSON with a bearer token and an X-Request-Id;
//  3. classifies the outcome into the error taxonomy of package common.
//
// The Client interface adds typed wrappers for the non-list endpoints.
//
// # Error Handling
//
// Failures are *APIError values. Match them with errors.Is against the
// sentinels in package common:
//
//	ErrNetwork                  no response received
//	ErrAuth                     any 401; also one of
//	  ErrInvalidCredentials     401 on calls made with credentials
//	  ErrSessionExpired         401 on calls made with a token
//	ErrValidation               400 or 422, server message kept verbatim
//	ErrServer                   5xx and any other non-2xx status
//	ErrDecode                   2xx body that is not the expected JSON
//	ErrUnauthenticated          no token stored, nothing sent
//
// The layer never retries and never writes to the credential store.
//
// # Caching
//
// With WithResponseCache, GET responses the backend marks cacheable are kept
// in a SessionCache behind gregjones/httpcache. ResetCache drops them; the
// auth service calls it on logout so one session never sees another's data.
package client
