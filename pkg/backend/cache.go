package backend

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/orgsvc/orgsvc/pkg/proto"
)

// cache holds public user records by id. Users are never updated, so entries
// only leave the cache by eviction.
type cache struct {
	users *lru.Cache[string, proto.User]
}

func newCache(size int) *cache {
	if size <= 0 {
		size = 1
	}
	users, _ := lru.New[string, proto.User](size)
	return &cache{users: users}
}

func (c *cache) Get(id string) (proto.User, bool) {
	return c.users.Get(id)
}

func (c *cache) Set(id string, u proto.User) {
	c.users.Add(id, u)
}
