package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var cfg Coordinator

// Coordinator holds everything a running coordinator process needs that
// isn't carried on the per-query ExecRequest: listen addresses, logging,
// and the tunables governing dispatch and finalization.
type Coordinator struct {
	LogLevel        string        `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogPretty       bool          `json:"log_pretty" toml:"log_pretty" yaml:"log_pretty"`
	Host            string        `json:"host" toml:"host" yaml:"host"`
	GrpcPort        string        `json:"grpc_port" toml:"grpc_port" yaml:"grpc_port"`
	SchedulerAddr   string        `json:"scheduler_addr" toml:"scheduler_addr" yaml:"scheduler_addr"`
	DispatchTimeout time.Duration `json:"dispatch_timeout" toml:"dispatch_timeout" yaml:"dispatch_timeout"`
	ReportTimeout   time.Duration `json:"report_timeout" toml:"report_timeout" yaml:"report_timeout"`
	FinalizeBaseDir string        `json:"finalize_base_dir" toml:"finalize_base_dir" yaml:"finalize_base_dir"`
}

// Load reads the coordinator configuration from cfgPath, selecting a
// decoder by file extension, and returns the JSON-formatted result for
// logging on startup.
func Load(cfgPath string) (string, error) {
	var c Coordinator
	file, err := os.Open(cfgPath)
	if err != nil {
		cfg = c
		return "", err
	}
	defer file.Close()

	if err := decode(file, &c); err != nil {
		cfg = c
		return "", err
	}
	cfg = c

	out, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decode(file *os.File, target any) error {
	switch {
	case strings.HasSuffix(file.Name(), ".toml"):
		_, err := toml.NewDecoder(file).Decode(target)
		return err
	case strings.HasSuffix(file.Name(), ".yaml"), strings.HasSuffix(file.Name(), ".yml"):
		return yaml.NewDecoder(file).Decode(target)
	case strings.HasSuffix(file.Name(), ".json"):
		return json.NewDecoder(file).Decode(target)
	default:
		return fmt.Errorf("unknown config format type: %s. Use .toml, .yaml or .json suffix in filename", file.Name())
	}
}

// Get returns a pointer to the process-wide coordinator configuration.
func Get() *Coordinator {
	return &cfg
}
