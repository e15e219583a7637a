package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

type (
	// Config for the notifier.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	// Notifier raises the skipper over chat when the voyage needs
	// attention. Send dials a fresh session per message.
	Notifier struct {
		Config Config
	}
)

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

// Enabled reports whether enough configuration is present to send.
func (n Notifier) Enabled() bool {
	return len(n.Config.Jid) > 0 && len(n.Config.Password) > 0 && len(n.Config.To) > 0
}

func (n Notifier) Send(message string) error {
	if !n.Enabled() {
		return errors.New("missing xmpp config")
	}

	if len(n.Config.Host) == 0 {
		n.Config.Host = serverName(n.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          n.Config.Host,
		User:          n.Config.Jid,
		Password:      n.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "dnd",
		StatusMessage: "at sea",
	}

	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Unable to reach the xmpp server")
		return err
	}
	defer talk.Close()

	log.Debugf("Notifying %s", n.Config.To)
	_, err = talk.Send(xmpp.Chat{Remote: n.Config.To, Type: "chat", Text: message})
	return err
}
