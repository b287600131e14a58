// Package utils provides type conversion helpers for request parameters.
package utils
