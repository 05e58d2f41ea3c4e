package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a control API address in format [host]:[port]
//	-s server API base URL
//	-d database DSN
//	-driver database driver name (sqlite3 or pgx)
//	-c/-config json file path with configs
//	-token static auth token
//	-token-file path to a file holding the auth token
//	-sync-interval base period between scheduled syncs (e.g., "5m")
//	-request-timeout outbound request timeout (e.g., "15s")
//	-log-file log file path (empty logs to stdout)
func ParseFlags() *StructuredConfig {
	var controlAddress NetAddress
	var serverBaseURL string
	var databaseDSN string
	var databaseDriver string
	var jsonConfigPath string
	var token string
	var tokenFile string
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var logFile string

	flag.Var(&controlAddress, "a", "Control API net address host:port")
	flag.StringVar(&serverBaseURL, "s", "", "Server API base URL")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&databaseDriver, "driver", "", "Database driver (sqlite3 or pgx)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&token, "token", "", "Static auth token")
	flag.StringVar(&tokenFile, "token-file", "", "Path to auth token file")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Scheduled sync interval (e.g., 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout (e.g., 15s)")
	flag.StringVar(&logFile, "log-file", "", "Log file path (empty logs to stdout)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Token:     token,
			TokenFile: tokenFile,
		},
		Adapter: Adapter{
			BaseURL:        serverBaseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		Server: Server{
			Address: controlAddress.String(),
		},
		Log: Log{
			File: logFile,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
