package app

import (
	sddaemon "github.com/coreos/go-systemd/v22/daemon"

	"tododaemon/pkg/logging"
)

const (
	readyState    = sddaemon.SdNotifyReady
	stoppingState = sddaemon.SdNotifyStopping
)

// sdNotify is a variable so tests can observe state changes.
var sdNotify = sddaemon.SdNotify

// notify reports state to systemd. It is a no-op outside a Type=notify unit.
func notify(state string) {
	sent, err := sdNotify(false, state)
	if err != nil {
		logging.Warn("Daemon", "Failed to notify service manager: %v", err)
		return
	}
	if sent {
		logging.Debug("Daemon", "Notified service manager: %s", state)
	}
}
