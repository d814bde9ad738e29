package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container collects per-operation middlewares before handing them to a
// handler. GetAllAndClear resets it so the same container can be reused
// for the next handler's chain.
type Container struct {
	huma.Middlewares
}

func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

func (mc *Container) Add(middleware func(ctx huma.Context, next func(huma.Context))) {
	mc.Middlewares = append(mc.Middlewares, middleware)
}

func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
