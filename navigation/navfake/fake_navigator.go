package navfake

import (
	"sync"

	"github.com/jrsteele09/go-efact-client/navigation"
)

var _ navigation.Navigator = (*FakeNavigator)(nil)

// FakeNavigator records every route it is asked to navigate to.
type FakeNavigator struct {
	routes []string
	lock   sync.Mutex
}

func NewFakeNavigator() *FakeNavigator {
	return &FakeNavigator{}
}

func (n *FakeNavigator) Navigate(route string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.routes = append(n.routes, route)
}

func (n *FakeNavigator) Routes() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

// Count returns how many times route was requested.
func (n *FakeNavigator) Count(route string) int {
	count := 0
	for _, r := range n.Routes() {
		if r == route {
			count++
		}
	}
	return count
}
