package server

import (
	"os"
	"path/filepath"
	"strings"

	"articledesk/pkg/db"
	"articledesk/pkg/nsc"
	"articledesk/pkg/util"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StoreModeDB   = "db"   // mysql/postgres
	StoreModeFile = "file" // 历史遗留的badger文件存储
)

type Config struct {
	ClientName string          `json:"client_name" yaml:"client_name"`
	Port       int             `json:"port,omitempty" yaml:"port,omitempty"`
	Store      string          `json:"store,omitempty" yaml:"store,omitempty"`
	DataDir    string          `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	UploadDir  string          `json:"upload_dir,omitempty" yaml:"upload_dir,omitempty"`
	DB         *db.Config      `json:"db,omitempty" yaml:"db,omitempty"`
	Nats       *nsc.NatsConfig `json:"nats,omitempty" yaml:"nats,omitempty"`
}

func (g *Config) Validate() []error {
	var errs = make([]error, 0)
	if err := util.IsValidPort(g.Port); err != nil {
		errs = append(errs, err)
	}
	switch g.Store {
	case StoreModeDB:
		if es := g.DB.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	case StoreModeFile:
		if g.DataDir == "" {
			errs = append(errs, errors.Errorf("file存储模式必须指定data_dir"))
		}
	default:
		errs = append(errs, errors.Errorf("未知的存储模式: %s", g.Store))
	}
	if g.Nats.Enabled() {
		if err := g.Nats.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func NewDefaultConfig() *Config {
	return &Config{
		Port:      4000,
		Store:     StoreModeDB,
		DataDir:   "./etc/data",
		UploadDir: "./uploads",
		DB:        db.NewDefaultDBConfig(),
		Nats:      nsc.NewDefaultNatsConfig(),
	}
}

func TryLoadFromDisk(configFilePath string) (*Config, error) {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return nil, err
	}
	dir, file := filepath.Split(configFilePath)
	fileType := filepath.Ext(file)
	viper.AddConfigPath(dir)
	viper.SetConfigName(strings.TrimSuffix(file, fileType))
	viper.SetConfigType(strings.TrimPrefix(fileType, "."))
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}
	cfg := NewDefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
