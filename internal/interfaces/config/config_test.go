// Package config
package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

func testConfig(t *testing.T) *Config {
	config := DefaultConfig()
	config.Server.HttpServer.Store.LocalStorePath = filepath.Join(t.TempDir(), "uploads")
	return config
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := testConfig(t)
	if result := config.CheckValid(testutils.NewRecordLogger()); result.IsFail() {
		t.Fatalf("DefaultConfig().CheckValid() failed: %s", result)
	}
	if config.Server.HttpServer.Address != "0.0.0.0:6820" {
		t.Errorf("Address = %q", config.Server.HttpServer.Address)
	}
	if config.Database.QueryDuration.String() != "10s" {
		t.Errorf("QueryDuration = %v", config.Database.QueryDuration)
	}
	if config.Ingest.BatchSize != 500 || config.Ingest.ExpectedColumns != 14 || config.Ingest.PreviewLength != 200 {
		t.Errorf("unexpected ingest defaults %+v", config.Ingest)
	}
}

func TestSyncTimeoutWithinRequestTimeout(t *testing.T) {
	tests := []struct {
		name           string
		requestTimeout string
		syncTimeout    string
		warned         bool
	}{
		{"defaults", "", "", false},
		{"sync shorter", "2m", "90s", false},
		{"sync equal", "2m", "2m", false},
		{"sync longer", "2m", "5m", true},
	}
	for _, test := range tests {
		config := testConfig(t)
		config.CloudInbox.Enabled = true
		config.CloudInbox.SyncToken = "token"
		if test.requestTimeout != "" {
			config.Server.HttpServer.RequestTimeout = test.requestTimeout
			config.CloudInbox.SyncTimeout = test.syncTimeout
		}
		logger := testutils.NewRecordLogger()
		if result := config.CheckValid(logger); result.IsFail() {
			t.Errorf("%s: CheckValid() failed: %s", test.name, result)
			continue
		}
		warned := false
		for _, line := range logger.Lines {
			if strings.HasPrefix(line, "WARN ") && strings.Contains(line, "exceeds http_server.request_timeout") {
				warned = true
			}
		}
		if warned != test.warned {
			t.Errorf("%s: warned = %v; expected %v", test.name, warned, test.warned)
		}
	}
	if config := testConfig(t); config.CloudInbox.SyncTimeout != "90s" || config.Server.HttpServer.RequestTimeout != "2m" {
		t.Errorf("default sync_timeout %s must fit within request_timeout %s",
			config.CloudInbox.SyncTimeout, config.Server.HttpServer.RequestTimeout)
	}
}

func TestConfigCheckValidFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(config *Config)
	}{
		{"version mismatch", func(c *Config) { c.ConfigVersion = "9.0.0" }},
		{"bad version", func(c *Config) { c.ConfigVersion = "latest" }},
		{"missing section", func(c *Config) { c.Ingest = nil }},
		{"database type", func(c *Config) { c.Database.Type = "oracle" }},
		{"query timeout", func(c *Config) { c.Database.QueryTimeout = "soon" }},
		{"too few columns", func(c *Config) { c.Ingest.ExpectedColumns = 10 }},
		{"batch size", func(c *Config) { c.Ingest.BatchSize = 0 }},
		{"no extensions", func(c *Config) { c.Ingest.AllowedExtensions = nil }},
		{"inbox url", func(c *Config) { c.CloudInbox.Enabled = true; c.CloudInbox.BaseUrl = "ftp://inbox" }},
		{"inbox timeout", func(c *Config) { c.CloudInbox.Enabled = true; c.CloudInbox.SyncTimeout = "0s" }},
		{"port", func(c *Config) { c.Server.HttpServer.Port = 70000 }},
		{"rate limit", func(c *Config) { c.Server.HttpServer.Limits.RateLimit = 0 }},
		{"store type", func(c *Config) { c.Server.HttpServer.Store.StoreType = 5 }},
		{"oss bucket", func(c *Config) {
			c.Server.HttpServer.Store.StoreType = ALiYunOssStore
			c.Server.HttpServer.Store.Region = "cn-hangzhou"
		}},
		{"metrics path", func(c *Config) { c.Server.HttpServer.Metrics.Path = "/api/metrics" }},
		{"bcrypt", func(c *Config) { c.Server.General.BcryptCost = 2 }},
	}
	for _, test := range tests {
		config := testConfig(t)
		test.mutate(config)
		if result := config.CheckValid(testutils.NewRecordLogger()); !result.IsFail() {
			t.Errorf("%s: CheckValid() passed; expected failure", test.name)
		}
	}
}

func TestIngestConfigNormalizesLists(t *testing.T) {
	config := defaultIngestConfig()
	config.AllowedExtensions = []string{".TXT", "csv"}
	config.AllowedContentTypes = []string{" Text/Plain "}
	if result := config.checkValid(nil); result.IsFail() {
		t.Fatalf("checkValid failed: %s", result)
	}
	if config.AllowedExtensions[0] != "txt" || config.AllowedContentTypes[0] != "text/plain" {
		t.Errorf("lists not normalized: %v %v", config.AllowedExtensions, config.AllowedContentTypes)
	}
}

func TestApplyEnvironment(t *testing.T) {
	config := DefaultConfig()
	env := map[string]string{
		global.EnvJwtSecret:        "secret-from-env",
		global.EnvCloudSyncToken:   "token-from-env",
		global.EnvDatabasePassword: "",
	}
	applied := config.ApplyEnvironment(func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})
	if len(applied) != 2 {
		t.Errorf("applied = %v; expected two overrides", applied)
	}
	if config.Server.HttpServer.JWT.Secret != "secret-from-env" {
		t.Errorf("jwt secret not overridden")
	}
	if config.CloudInbox.SyncToken != "token-from-env" {
		t.Errorf("sync token not overridden")
	}
	if config.Database.Password != "" {
		t.Errorf("empty env value must not override")
	}
}
