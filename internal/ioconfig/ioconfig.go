// Package ioconfig reads configuration from config.yaml and environment
// variables, and renders the effective configuration.
package ioconfig

import (
	"bytes"
	"strings"

	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts names of environment variables that override
// config.yaml settings.
const EnvPrefix = "DICTMATRIX"

// keys are settings that can be stored in config.yaml and overridden by
// environment variables. They match the fields of config.ToOptions().
var keys = []string{
	"database.driver",
	"database.path",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.batch_size",

	"server.port",
	"server.site_url",

	"upload.path",
	"upload.workers",
	"upload.timeout",
	"upload.remove_on_success",
	"upload.remove_on_failure",

	"api_import.workers",
	"api_import.timeout",
	"api_import.request_timeout",
	"api_import.rate_limit",

	"linking.workers",
	"linking.timeout",
	"linking.naisc_url",
	"linking.babelnet_url",
	"linking.naisc_executable",
	"linking.naisc_config",
	"linking.poll_interval",

	"ingest.tei_stylesheet",
	"ingest.xslt_processor",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}

// EnvName returns the environment variable of a setting, for example
// DICTMATRIX_DATABASE_HOST for "database.host".
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads config.yaml from the config directory of homeDir,
// applies environment variables and returns the resulting
// configuration. Missing settings keep their default values.
func Load(homeDir string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	setDefaults(v)
	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var fileCfg config.Config
	if err = v.Unmarshal(&fileCfg); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	res := config.New()
	res.Update(fileCfg.ToOptions())
	res.Update([]config.Option{config.OptHomeDir(homeDir)})
	return res, nil
}

// setDefaults registers default values, so that commented out settings
// do not reset them.
func setDefaults(v *viper.Viper) {
	var m map[string]any
	bs, _ := yaml.Marshal(config.New())
	_ = yaml.Unmarshal(bs, &m)
	for _, k := range keys {
		if val, ok := lookup(m, k); ok {
			v.SetDefault(k, val)
		}
	}
}

func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	var cur any = m
	for _, p := range parts {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = mm[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func initEnvVars(v *viper.Viper) {
	// We bind variables manually so it is clear which of them are allowed.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, k := range keys {
		_ = v.BindEnv(k, EnvName(k))
	}

	v.AutomaticEnv()
}

// Render returns the configuration as YAML. The database password is
// hidden.
func Render(cfg *config.Config) (string, error) {
	c := *cfg
	if c.Database.Password != "" {
		c.Database.Password = "********"
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
