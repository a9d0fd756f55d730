package sorosan

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Network passphrases. A transaction hash commits to one of these.
const (
	TestnetPassphrase   = "Test SDF Network ; September 2015"
	MainnetPassphrase   = "Public Global Stellar Network ; September 2015"
	FuturenetPassphrase = "Test SDF Future Network ; October 2022"
)

// Network names accepted in Config.Network.
const (
	NetworkTestnet   = "testnet"
	NetworkMainnet   = "mainnet"
	NetworkFuturenet = "futurenet"
	NetworkCustom    = "custom"
)

const (
	// DefaultPollInterval is the fixed cadence of finality polling.
	DefaultPollInterval = time.Second

	// DefaultPlaceholderAccount is the source used to simulate read-only
	// calls and fee estimates.
	DefaultPlaceholderAccount = "GDLEI7MS6EMTGHB7N5YHSVEMEWSWNUM4T77VDEGNTXSBRTIGMXUCE5GF"
)

// Config holds client settings. The zero value is not usable; start from
// DefaultConfig or LoadConfig.
type Config struct {
	RPCURL             string        `yaml:"rpc_url"`
	Network            string        `yaml:"network"`
	NetworkPassphrase  string        `yaml:"network_passphrase,omitempty"`
	BaseFee            uint32        `yaml:"base_fee"`
	PlaceholderAccount string        `yaml:"placeholder_account"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	Log                LogConfig     `yaml:"log"`
}

// LogConfig controls logging in the command line tool.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// DefaultConfig returns settings for a named network.
func DefaultConfig(network string) Config {
	cfg := Config{
		Network:            network,
		BaseFee:            DefaultBaseFee,
		PlaceholderAccount: DefaultPlaceholderAccount,
		PollInterval:       DefaultPollInterval,
		RequestTimeout:     DefaultRequestTimeout,
		Log:                LogConfig{Level: "info"},
	}
	switch network {
	case NetworkTestnet:
		cfg.RPCURL = "https://soroban-testnet.stellar.org"
	case NetworkFuturenet:
		cfg.RPCURL = "https://rpc-futurenet.stellar.org"
	}
	cfg.NetworkPassphrase = passphraseFor(network)
	return cfg
}

// LoadConfig reads a YAML config file. Unset fields take the defaults of
// the configured network.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sorosan: load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Network string `yaml:"network"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("sorosan: parse config: %w", err)
	}
	network := strings.ToLower(head.Network)
	if network == "" {
		network = NetworkTestnet
	}
	cfg := DefaultConfig(network)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sorosan: parse config: %w", err)
	}
	cfg.Network = network
	if cfg.NetworkPassphrase == "" {
		cfg.NetworkPassphrase = passphraseFor(network)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for missing or inconsistent values.
func (c Config) Validate() error {
	var errs []error
	switch c.Network {
	case NetworkTestnet, NetworkMainnet, NetworkFuturenet:
		if want := passphraseFor(c.Network); c.NetworkPassphrase != want {
			errs = append(errs, fmt.Errorf("network_passphrase does not match network %s", c.Network))
		}
	case NetworkCustom:
		if c.NetworkPassphrase == "" {
			errs = append(errs, errors.New("network_passphrase is required for a custom network"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown network %q", c.Network))
	}
	if c.BaseFee == 0 {
		errs = append(errs, errors.New("base_fee must be positive"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must not be negative"))
	}
	if _, err := ParseAddress(c.PlaceholderAccount); err != nil {
		errs = append(errs, fmt.Errorf("placeholder_account: %w", err))
	} else if !IsAccountAddress(c.PlaceholderAccount) {
		errs = append(errs, errors.New("placeholder_account must be an account address"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("sorosan: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func passphraseFor(network string) string {
	switch network {
	case NetworkTestnet:
		return TestnetPassphrase
	case NetworkMainnet:
		return MainnetPassphrase
	case NetworkFuturenet:
		return FuturenetPassphrase
	}
	return ""
}
