package infra

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fystack/solana-account-fetcher/pkg/common/config"
	"github.com/fystack/solana-account-fetcher/pkg/common/constant"
	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/nats-io/nats.go"
)

// GetNATSConnection dials the configured server. Outside production a plain
// connection is used; production requires mTLS and user credentials.
func GetNATSConnection(natsConfig config.NATSConfig, environment string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("solana-account-fetcher"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("Disconnected from NATS", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("NATS connection closed")
		}),
		nats.ErrorHandler(NatsErrHandler),
	}

	natsURL := natsConfig.URL
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	if environment != constant.EnvProduction {
		return nats.Connect(natsURL, opts...)
	}

	clientCert := natsConfig.TLS.ClientCert
	clientKey := natsConfig.TLS.ClientKey
	caCert := natsConfig.TLS.CACert

	if clientCert == "" {
		clientCert = filepath.Join(".", "certs", "client-cert.pem")
	}
	if clientKey == "" {
		clientKey = filepath.Join(".", "certs", "client-key.pem")
	}
	if caCert == "" {
		caCert = filepath.Join(".", "certs", "rootCA.pem")
	}

	opts = append(opts,
		nats.ClientCert(clientCert, clientKey),
		nats.RootCAs(caCert),
		nats.UserInfo(natsConfig.Username, natsConfig.Password),
	)
	return nats.Connect(natsURL, opts...)
}

func NatsErrHandler(nc *nats.Conn, sub *nats.Subscription, natsErr error) {
	logger.Error("NATS error", "error", natsErr)
	if errors.Is(natsErr, nats.ErrSlowConsumer) && sub != nil {
		pendingMsgs, _, err := sub.Pending()
		if err != nil {
			logger.Error("Error getting pending messages", "error", err)
			return
		}
		logger.Error("Falling behind with pending messages on subject", "pending", pendingMsgs, "subject", sub.Subject)
	}
}
