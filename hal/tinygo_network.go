//go:build tinygo && baremetal

package hal

import (
	"context"
	"errors"
	"net"

	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"
)

// Network credentials are baked in at build time:
//
//	tinygo flash -ldflags "-X dhtpanel/hal.NetworkSSID=... -X dhtpanel/hal.NetworkPassphrase=..."
var (
	NetworkSSID       string
	NetworkPassphrase string
)

type wifiNetwork struct {
	logger Logger
	link   netlink.Netlinker
}

func newWiFiNetwork(logger Logger) *wifiNetwork {
	return &wifiNetwork{logger: logger}
}

func (n *wifiNetwork) Join(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if NetworkSSID == "" {
		return errors.New("net: no SSID configured (set hal.NetworkSSID via -ldflags)")
	}
	link, _ := probe.Probe()
	if link == nil {
		return errors.New("net: no network device on this board")
	}
	n.logger.WriteLineString("net: joining " + NetworkSSID)
	if err := link.NetConnect(&netlink.ConnectParams{
		Ssid:       NetworkSSID,
		Passphrase: NetworkPassphrase,
	}); err != nil {
		return err
	}
	n.link = link
	return nil
}

func (n *wifiNetwork) Listen(addr string) (net.Listener, error) {
	if n.link == nil {
		return nil, errors.New("net: listen before join")
	}
	return net.Listen("tcp", addr)
}
