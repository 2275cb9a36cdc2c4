// Package utils holds input validation shared by the HTTP layer and the
// site registry.
package utils
