package cache

// KeyStrategy builds the cache key of a query for one endpoint. Strategies
// replace the default JSON key when it is too coarse or too fine, for example
// to keep filter, search, pagination and sort in separate key segments.
type KeyStrategy interface {
	Key(params Params, opts Options) string
}

// KeyStrategyFunc adapts a plain function to KeyStrategy.
type KeyStrategyFunc func(params Params, opts Options) string

func (f KeyStrategyFunc) Key(params Params, opts Options) string {
	return f(params, opts)
}
