// Package contracts lets pkg/app mount service handlers without importing
// any service package.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's HTTP handler. RegisterRoutes is
// called once, before the server starts listening.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
