// Package capability is the CapabilityOracle: a yes/no answer to whether the
// session user may perform an action on a target.
package capability
