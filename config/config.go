// Package config loads the service configuration from a YAML file with
// environment fallbacks for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// or "15m". Bare integers are taken as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds int64
	if err := value.Decode(&seconds); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(seconds) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// SolrConfig configures the metadata index client.
type SolrConfig struct {
	BaseURL string   `yaml:"baseUrl"`
	Core    string   `yaml:"core"`
	Timeout Duration `yaml:"timeout"`
}

// S3Config configures the object storage presigner. Credentials left empty
// fall back to the AWS default chain; static keys may also come from the
// standard AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY environment variables.
type S3Config struct {
	Bucket    string   `yaml:"bucket"`
	Region    string   `yaml:"region"`
	Endpoint  string   `yaml:"endpoint"`
	AccessKey string   `yaml:"accessKey"`
	SecretKey string   `yaml:"secretKey"`
	URLTTL    Duration `yaml:"urlTtl"`
}

// AuthConfig configures access-control predicate extraction. An empty Secret
// disables token verification and applies AnonymousPredicate to every
// request. The secret may also come from the DATAGATEWAY_JWT_SECRET
// environment variable.
type AuthConfig struct {
	Secret             string `yaml:"secret"`
	PredicateClaim     string `yaml:"predicateClaim"`
	AnonymousPredicate string `yaml:"anonymousPredicate"`
}

// LocalConfig configures local filesystem delivery.
type LocalConfig struct {
	// AllowedRoots restricts streamed files to these directories.
	// Empty means any path recorded in the index is served.
	AllowedRoots []string `yaml:"allowedRoots"`
}

// Config is the root service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Solr   SolrConfig   `yaml:"solr"`
	S3     S3Config     `yaml:"s3"`
	Auth   AuthConfig   `yaml:"auth"`
	Local  LocalConfig  `yaml:"local"`
}

// Default returns the configuration defaults applied before file values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Solr: SolrConfig{
			BaseURL: "http://localhost:8983/solr",
			Core:    "files",
			Timeout: Duration(30 * time.Second),
		},
		S3: S3Config{
			Region: "us-east-1",
			URLTTL: Duration(15 * time.Minute),
		},
		Auth: AuthConfig{
			PredicateClaim: "accessPredicate",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
// and applies environment fallbacks.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Load returns the defaults with environment fallbacks applied, for running
// without a config file.
func Load() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if c.Auth.Secret == "" {
		c.Auth.Secret = os.Getenv("DATAGATEWAY_JWT_SECRET")
	}
	if c.S3.AccessKey == "" {
		c.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if c.S3.SecretKey == "" {
		c.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
}
