package hue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

var ErrNoBridgeFound = errors.New("hue: no bridge found")

type DiscoveredBridge struct {
	Host     string
	BridgeID string
	Name     string
}

// Discover finds bridges on the local network over mDNS
func Discover(timeout time.Duration) ([]DiscoveredBridge, error) {
	entries := make(chan *mdns.ServiceEntry, 10)
	done := make(chan []DiscoveredBridge)

	go func() {
		bridges := []DiscoveredBridge{}
		for entry := range entries {
			if entry.AddrV4 == nil {
				continue
			}
			bridge := DiscoveredBridge{Host: entry.AddrV4.String(), Name: entry.Name}
			for _, txt := range entry.InfoFields {
				if id, ok := strings.CutPrefix(txt, "bridgeid="); ok {
					bridge.BridgeID = id
				}
			}
			bridges = append(bridges, bridge)
		}
		done <- bridges
	}()

	params := mdns.DefaultParams("_hue._tcp")
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.Query(params)
	close(entries)
	bridges := <-done

	if err != nil {
		return bridges, fmt.Errorf("mDNS query failed: %w", err)
	}
	if len(bridges) == 0 {
		return nil, ErrNoBridgeFound
	}
	return bridges, nil
}
