package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, SourceScrape, cfg.Source)
	assert.Equal(t, "media", cfg.OutputDir)
	assert.Equal(t, 2*time.Second, cfg.Menu.Delay)
	assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout)
	assert.Contains(t, cfg.Scrape.UserAgent, "Mozilla/5.0")
	assert.Equal(t, 200, cfg.API.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.API.MaxRateLimitWait)
	assert.Equal(t, ":5555", cfg.Server.Listen)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("FOLLOWEXPORT_SOURCE", "api")
	t.Setenv("FOLLOWEXPORT_SCRAPE_TIMEOUT", "3s")
	t.Setenv("FOLLOWEXPORT_API_CONSUMER_KEY", "ck")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, SourceAPI, cfg.Source)
	assert.Equal(t, 3*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, "ck", cfg.API.ConsumerKey)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "followexport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: api
output_dir: exports
api:
  page_size: 50
  access_token: from-file
menu:
  delay: 0s
`), 0600))

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, SourceAPI, cfg.Source)
	assert.Equal(t, "exports", cfg.OutputDir)
	assert.Equal(t, 50, cfg.API.PageSize)
	assert.Equal(t, "from-file", cfg.API.AccessToken)
	assert.Equal(t, time.Duration(0), cfg.Menu.Delay)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "cannot read config file")
}

func TestLoadEnvFile(t *testing.T) {
	// Registered so the value godotenv sets is dropped after the test.
	t.Setenv("FOLLOWEXPORT_API_ACCESS_TOKEN_SECRET", "")
	require.NoError(t, os.Unsetenv("FOLLOWEXPORT_API_ACCESS_TOKEN_SECRET"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOLLOWEXPORT_API_ACCESS_TOKEN_SECRET=from-dotenv\n"), 0600))

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.AccessTokenSecret)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FOLLOWEXPORT_OUTPUT_DIR", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "", "")
	flags.String("source", "", "")
	require.NoError(t, flags.Parse([]string{"--output-dir", "from-flag"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.OutputDir)
	assert.Equal(t, SourceScrape, cfg.Source)
}

func TestValidate(t *testing.T) {
	t.Setenv("FOLLOWEXPORT_SOURCE", "carrier-pigeon")
	t.Setenv("FOLLOWEXPORT_API_PAGE_SIZE", "0")

	_, err := Load(Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `source must be "scrape" or "api", got "carrier-pigeon"`)
	assert.Contains(t, err.Error(), "api.page_size must be positive")
}
