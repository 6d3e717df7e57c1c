package backend

import lru "github.com/hashicorp/golang-lru/v2"

// TODO: implement a caching interface.
type cache struct {
	b     *Backend
	users *lru.Cache[string, *user]
}

func newCache(b *Backend, size int) *cache {
	if size <= 0 {
		size = 1
	}
	c := &cache{b: b}
	cache, _ := lru.New[string, *user](size)
	c.users = cache
	return c
}

func (c *cache) Get(handle string) (*user, bool) {
	return c.users.Get(handle)
}

func (c *cache) Set(handle string, u *user) {
	c.users.Add(handle, u)
}

func (c *cache) Delete(handle string) {
	c.users.Remove(handle)
}

func (c *cache) Len() int {
	return c.users.Len()
}
