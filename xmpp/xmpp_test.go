package xmpp

import "testing"

func TestServerName(t *testing.T) {
	if s := serverName("bot@example.org"); s != "example.org" {
		t.Errorf("serverName() = %s; want example.org", s)
	}
}

func TestEnabled(t *testing.T) {
	n := Notifier{}
	if n.Enabled() {
		t.Error("Enabled() = true; want false without config")
	}

	n.Config = Config{Jid: "bot@example.org", Password: "secret", To: "skipper@example.org"}
	if !n.Enabled() {
		t.Error("Enabled() = false; want true")
	}
}

func TestSendUnconfigured(t *testing.T) {
	if err := (Notifier{}).Send("ahoy"); err == nil {
		t.Error("Send() error = nil; want an error without config")
	}
}
