package memcache_fx

import (
	"go.uber.org/fx"

	mem "wanderai/pkg/memcache"
)

var Module = fx.Provide(provideMemcacheClient)

func provideMemcacheClient() mem.TTLStore {
	return mem.NewStore()
}
