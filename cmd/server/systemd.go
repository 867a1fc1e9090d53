package main

import (
	"net"
	"os"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// notifySystemd sends READY=1 when started under systemd with Type=notify.
func notifySystemd() error {
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return xerrors.New("NOTIFY_SOCKET not set, skipping systemd notify")
	}
	conn, err := net.Dial("unixgram", addr)
	if err != nil {
		return xerrors.Wrap(err, "systemd notify: dial")
	}
	if _, err := conn.Write([]byte("READY=1")); err != nil {
		conn.Close()
		return xerrors.Wrap(err, "systemd notify: write")
	}
	return xerrors.Wrap(conn.Close(), "systemd notify: close")
}
