package core

import (
	"regexp"
	"strings"
)

type AccountStatus byte

const (
	_                                  = iota
	StatusExists         AccountStatus = iota
	StatusNotFound       AccountStatus = iota
	StatusSuspended      AccountStatus = iota
	StatusPrivate        AccountStatus = iota
	StatusTransientError AccountStatus = iota
)

// FollowingList holds "@"-prefixed handles in the order the source returned them.
type FollowingList []string

// homeHandle is the navigation link every profile page carries.
const homeHandle = "home"

var handleRe = regexp.MustCompile(`^\w+$`)

// ValidHandle reports whether username has the shape of an account handle, without "@".
func ValidHandle(username string) bool {
	return handleRe.MatchString(username)
}

// Collector builds a FollowingList for one queried account, dropping
// duplicates, the account itself and the home placeholder.
type Collector struct {
	username string
	seen     map[string]struct{}
	list     FollowingList
}

func NewCollector(username string) *Collector {
	return &Collector{
		username: strings.TrimPrefix(username, "@"),
		seen:     make(map[string]struct{}),
	}
}

// Add reports whether handle was appended.
func (c *Collector) Add(handle string) bool {
	name := strings.TrimPrefix(strings.TrimSpace(handle), "@")

	if name == "" || name == homeHandle || strings.EqualFold(name, c.username) {
		return false
	}

	key := "@" + name
	if _, ok := c.seen[key]; ok {
		return false
	}

	c.seen[key] = struct{}{}
	c.list = append(c.list, key)

	return true
}

func (c *Collector) Len() int {
	return len(c.list)
}

// List returns a snapshot of the handles collected so far.
func (c *Collector) List() FollowingList {
	out := make(FollowingList, len(c.list))
	copy(out, c.list)
	return out
}
