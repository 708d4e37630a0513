package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix         = "TONGEN"
	DefaultConfigPath = "configs/tongen.toml"
)

type Configuration struct {
	LogLevel string `toml:"log_level" envconfig:"LOG_LEVEL"`
	// batch files
	InputPath  string `toml:"input_path" envconfig:"INPUT_PATH"`
	OutputPath string `toml:"output_path" envconfig:"OUTPUT_PATH"`
	// testnet flag on address_bounceable_url_safe
	TestnetAddress bool `toml:"testnet_address" envconfig:"TESTNET_ADDRESS"`
	// ton_proof items for each batch wallet, disabled when the manifest url is empty
	ProofManifestURL string `toml:"proof_manifest_url" envconfig:"PROOF_MANIFEST_URL"`
	ProofOutputPath  string `toml:"proof_output_path" envconfig:"PROOF_OUTPUT_PATH"`
	// prometheus text exposition dump, disabled when empty
	MetricsTextfile string `toml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
	// archive db
	ArchiveEnabled bool   `toml:"archive_enabled" envconfig:"ARCHIVE_ENABLED"`
	DbHost         string `toml:"db_host" envconfig:"DB_HOST"`
	DbPort         int    `toml:"db_port" envconfig:"DB_PORT"`
	DbName         string `toml:"db_name" envconfig:"DB_NAME"`
	DbUser         string `toml:"db_user" envconfig:"DB_USER"`
	DbPass         string `toml:"db_pass" envconfig:"DB_PASS"`
}

func NewConfiguration() *Configuration {
	return &Configuration{
		LogLevel:        "info",
		InputPath:       "data.txt",
		OutputPath:      "ton_wallets.json",
		TestnetAddress:  true,
		ProofOutputPath: "ton_proofs.json",
		DbHost:          "localhost",
		DbPort:          5432,
		DbName:          "database",
		DbUser:          "username",
		DbPass:          "password",
	}
}

// Load applies, in order, the defaults, the TOML file at path (skipped when
// it does not exist) and TONGEN_* environment variables.
func Load(path string) (*Configuration, error) {
	configuration := NewConfiguration()

	if path != "" {
		if _, err := toml.DecodeFile(path, configuration); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, configuration); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	return configuration, nil
}

// PathFromEnv returns the config file location, TONGEN_CONFIG_PATH or the default.
func PathFromEnv() string {
	if p, ok := os.LookupEnv(envPrefix + "_CONFIG_PATH"); ok {
		return p
	}
	return DefaultConfigPath
}
