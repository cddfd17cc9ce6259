package browsertest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/carrental-io/carrental-qa/internal/config"
)

const configTemplate = `[common info]
baseURL = %s
apiURL = %s

[credentials]
admin_username = admin
admin_password = Admin@123

[selenium]
browser = chromium
implicit_wait = 3
headless = true
window_size = 1024,768

[paths]
screenshots_dir = %s
logs_dir = %s
`

// Config writes a minimal configuration into a temp dir and loads it. Screenshots and
// logs go under the same temp dir.
func Config(t testing.TB, baseURL, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	content := fmt.Sprintf(configTemplate, baseURL, apiURL,
		filepath.Join(dir, "screenshots"), filepath.Join(dir, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}
