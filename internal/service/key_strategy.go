package service

import (
	"fmt"
	"strings"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

var productsReservedParams = map[string]struct{}{
	"search":    {},
	"page":      {},
	"limit":     {},
	"sortBy":    {},
	"sortOrder": {},
}

// ProductsKeyStrategy keys product lists by separate filter, search,
// pagination and sort segments, e.g.
// products:category:food:search:tea:page:1,limit:25:sort:name,order:asc.
// Keys always start with "products:" so Glob("products:*") covers them.
func ProductsKeyStrategy() cache.KeyStrategy {
	return cache.KeyStrategyFunc(func(params cache.Params, _ cache.Options) string {
		filters := make([]string, 0, len(params))
		for _, key := range optimizer.SortedKeys(params) {
			if _, reserved := productsReservedParams[key]; reserved {
				continue
			}
			filters = append(filters, fmt.Sprintf("%s:%v", key, params[key]))
		}

		search := ""
		if v, ok := params["search"]; ok && v != "" {
			search = fmt.Sprintf("search:%v", v)
		}

		return fmt.Sprintf("products:%s:%s:page:%v,limit:%v:sort:%v,order:%v",
			strings.Join(filters, ","),
			search,
			valueOr(params["page"], 1),
			valueOr(params["limit"], 25),
			valueOr(params["sortBy"], "name"),
			valueOr(params["sortOrder"], "asc"),
		)
	})
}

func valueOr(v, def any) any {
	if v == nil || v == "" {
		return def
	}
	return v
}
