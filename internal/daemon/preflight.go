package daemon

import (
	"github.com/Wifx/gonetworkmanager/v2"

	"github.com/webrig/webrig/internal/errdefs"
	"github.com/webrig/webrig/internal/log"
)

// checkConnectivity asks NetworkManager whether the host has any network
// before starting a download-heavy install. Hosts without NetworkManager
// skip the check; the install itself will surface any real network failure.
func checkConnectivity() error {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		log.Debugf("daemon: NetworkManager unavailable, skipping connectivity preflight: %v", err)
		return nil
	}

	connectivity, err := nm.GetPropertyConnectivity()
	if err != nil {
		log.Debugf("daemon: connectivity query failed, skipping preflight: %v", err)
		return nil
	}

	if connectivity == gonetworkmanager.NmConnectivityNone {
		return errdefs.ErrNoConnectivity
	}
	return nil
}
