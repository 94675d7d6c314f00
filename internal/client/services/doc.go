// Package services contains the application services of the inventory
// client: login and session housekeeping (AuthService), the OTP verification
// state machine (VerificationFlow), list and detail access (InventoryService)
// and onboarding/account helpers (AccountService).
//
// Services own no transport: they compose a client.Client, a
// credentials.Store and the pagination engine.
package services
