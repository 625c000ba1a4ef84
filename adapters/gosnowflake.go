package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/builders"
	"github.com/snowbench/snowbench/snowauth"
)

// Register client
func init() {
	_ = register(&Gosnowflake{}, "adbc", "gosnowflake")
}

var _ core.Adapter = (*Gosnowflake)(nil)

// Gosnowflake is the columnar native-driver backend. It speaks the wire
// protocol through snowflakedb/gosnowflake and scans results through
// database/sql.
type Gosnowflake struct{}

const gosnowflakeBackend = "adbc"

// Connect builds a driver config from the profile and opens a session.
// Key-pair profiles parse the PEM material here, so a malformed key fails
// before any network traffic.
func (g *Gosnowflake) Connect(profile *core.Profile) (core.Driver, error) {
	config := gosnowflake.Config{
		Account:   profile.Account,
		User:      profile.User,
		Role:      profile.Role,
		Warehouse: profile.Warehouse,
		Database:  profile.Database,
		Schema:    profile.Schema,
	}
	if profile.KeepAlive {
		config.KeepSessionAlive = true
	}

	switch profile.Auth() {
	case core.AuthKeyPair:
		key, err := snowauth.ParsePrivateKey(profile.PrivateKey, profile.PrivateKeyPassphrase)
		if err != nil {
			return nil, core.NewConnectError(gosnowflakeBackend, core.ConnectMalformedCredential, err)
		}
		config.Authenticator = gosnowflake.AuthTypeJwt
		config.PrivateKey = key
	default:
		config.Password = profile.Password
	}

	dsn, err := gosnowflake.DSN(&config)
	if err != nil {
		return nil, core.NewConnectError(gosnowflakeBackend, core.ConnectUnknown, fmt.Errorf("build dsn: %w", err))
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, core.NewConnectError(gosnowflakeBackend, core.ConnectUnknown, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.NewConnectError(gosnowflakeBackend, connectKind(err), err)
	}

	return &gosnowflakeDriver{c: builders.NewClient(db)}, nil
}

func (g *Gosnowflake) Shape() core.ResultShape {
	return core.ShapeTabular
}

// connectKind classifies a session-establishment failure.
func connectKind(err error) core.ConnectErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return core.ConnectNetwork
	}

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		switch sfErr.Number {
		case 390100, 390101, 390102, 390103, 390104, 390144:
			return core.ConnectAuthRejected
		}
	}

	return core.ConnectUnknown
}
