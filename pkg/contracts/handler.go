package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Middleware wraps a route handler, typically to enforce authentication or
// role checks before it runs.
type Middleware func(httprouter.Handle) httprouter.Handle
