// Package identity is the ResourceIdentityRegistry. When two resource ids
// turn out to name the same resource, the retired id is aliased to the
// surviving one instead of migrating every reference.
package identity
