// Package netcore implements the badgenet network core (§4.C): the
// protocol registry, receive and transmit pumps, duplicate cache,
// TTL-limited flood forwarding, per-port callback dispatch, and the
// optional promiscuous capture tap. It bridges pkg/frame's wire codec and
// pkg/radio's driver contract.
//
// Per §5 and §9's "Cooperative tasks → native concurrency" design note,
// this port takes the sanctioned native-concurrency alternative: each
// pump runs on its own goroutine, the duplicate cache/queues/registry are
// protected by narrow mutexes, and callbacks always run outside any held
// lock.
package netcore

import "errors"

// ErrPortUnregistered is returned by Originate when no protocol is
// registered for the requested port.
var ErrPortUnregistered = errors.New("netcore: no protocol registered for port")
