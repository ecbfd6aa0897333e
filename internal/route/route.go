// Package route names the logical destinations the client can navigate to.
package route

type Path string

const (
	Login     Path = "/"
	Bills     Path = "#employee/bills"
	NewBill   Path = "#employee/bill/new"
	Dashboard Path = "#admin/dashboard"
)

// Navigator renders the view for a route. Services call it and never build
// URLs themselves.
type Navigator func(Path)

// Discard is a Navigator that ignores every request.
func Discard(Path) {}
