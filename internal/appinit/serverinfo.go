package appinit

import (
	"io/ioutil"
	"os"

	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ServerInfo is the Go struct for contents in server.yaml.
type ServerInfo struct {
	Port                       int            `yaml:"port"`
	AccessKeySecretEnv         string         `yaml:"accessKeySecretEnv"` // Name of the env var holding the HMAC secret. Secret material stays out of the file.
	SessionSignKeyEnv          string         `yaml:"sessionSignKeyEnv"`  // Name of the env var holding the session JWT signing key.
	WindowSeconds              int            `yaml:"windowSeconds"`
	RPCTimeoutSeconds          int            `yaml:"rpcTimeoutSeconds"`
	EntitlementCacheTTLSeconds int            `yaml:"entitlementCacheTTLSeconds"`
	Chains                     map[int]string `yaml:"chains"` // A lookup takes the chain ID and yields the RPC endpoint URL.
	MySQLDSN                   string         `yaml:"mysqlDSN"`
}

// LoadServerInfo loads the server config file (in YAML) which contains info needed to start a server.
//
// Parameters:
//   the path to the config file
//
// Returns:
//   the `ServerInfo` struct containing the info needed to start a server
func LoadServerInfo(configFilePath string) (ret ServerInfo, err error) {
	yamlStr, err := ioutil.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "failed to read the server config file")
		return
	}

	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "failed to parse the YAML file")
		return
	}

	return
}

// LoadSecretFromEnv reads a secret from the env var named in the config.
// A missing or empty secret is a configuration error, fatal at startup.
func LoadSecretFromEnv(envName string) ([]byte, error) {
	if envName == "" {
		return nil, errors.New("the config does not name the env var holding the secret")
	}

	secret := os.Getenv(envName)
	if secret == "" {
		return nil, errors.Errorf("the env var '%v' is empty. The server cannot start without it", envName)
	}

	return []byte(secret), nil
}
