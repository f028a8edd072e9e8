// Package deps checks for the external binaries used by printer drivers.
package deps
