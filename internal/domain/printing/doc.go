// Package printing describes the physical page a production sheet is laid
// out on.
package printing
