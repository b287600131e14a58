// Package account tracks logins awaiting confirmation and changes
// account-wide settings.
//
// Unconfirmed logins are kept oldest first, persisted as one CBOR blob under
// StorageKey and dropped once the autoconfirm period has passed since their
// date. Listeners hear about every change of the oldest entry.
package account
