// Package navigation carries route requests from the client core to whatever front end hosts it.
package navigation

import (
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Route path constants
const (
	RouteHome      = "/"
	RouteLogin     = "/auth/login"
	RouteDocuments = "/documents/{ticket}"
)

// DocumentsRoute returns the documents route for ticket.
func DocumentsRoute(ticket string) string {
	return strings.Replace(RouteDocuments, "{ticket}", url.PathEscape(ticket), 1)
}

// Navigator moves the front end to route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// LogNavigator is the navigator of headless front ends: it logs the request and remembers it.
type LogNavigator struct {
	lock    sync.RWMutex
	current string
}

var _ Navigator = (*LogNavigator)(nil)

func NewLogNavigator() *LogNavigator {
	return &LogNavigator{current: RouteHome}
}

func (n *LogNavigator) Navigate(route string) {
	n.lock.Lock()
	n.current = route
	n.lock.Unlock()
	log.Info().Str("route", route).Msg("navigate")
}

// Current returns the last requested route.
func (n *LogNavigator) Current() string {
	n.lock.RLock()
	defer n.lock.RUnlock()
	return n.current
}
