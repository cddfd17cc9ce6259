package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Section names of the backing INI file.
const (
	SectionCommon      = "common info"
	SectionCredentials = "credentials"
	SectionSelenium    = "selenium"
	SectionPaths       = "paths"
	SectionLogging     = "logging"
)

// Browser engines understood by the session fixture.
const (
	EnginePlaywright = "playwright"
	EngineRod        = "rod"
)

// Role selects a credential pair from the credentials section.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
	RoleShop     Role = "shop"
)

// Credentials is a username/password pair for one role.
type Credentials struct {
	Username string
	Password string
}

// String keeps passwords out of logs and failure messages.
func (c Credentials) String() string {
	return fmt.Sprintf("%s/[redacted]", c.Username)
}

// envOverrides maps config keys to the environment variables that replace them at load time.
var envOverrides = map[string]string{
	key(SectionCommon, "baseURL"):    "BASE_URL",
	key(SectionCommon, "apiURL"):     "API_URL",
	key(SectionCommon, "shopURL"):    "SHOP_URL",
	key(SectionSelenium, "headless"): "HEADLESS",
	key(SectionSelenium, "browser"):  "BROWSER",
	key(SectionSelenium, "driver"):   "DRIVER",
}

// Config is the parsed, immutable session configuration. Values are snapshotted at
// Load time; later edits to the backing file are not observed.
type Config struct {
	path   string
	values map[string]string

	baseURL        string
	apiURL         string
	shopURL        string
	browser        string
	engine         string
	implicitWait   time.Duration
	headless       bool
	noSandbox      bool
	windowWidth    int
	windowHeight   int
	screenshotsDir string
	logsDir        string
	loginData      string
	logLevel       string
}

// Load reads the INI file at path exactly once and returns the validated configuration.
// Any error is a *Error and should be treated as fatal by callers.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &Error{Path: abs, Err: fmt.Errorf("%w: %v", ErrMissingFile, err)}
	}

	v := viper.New()
	v.SetConfigFile(abs)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Path: abs, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	for k, env := range envOverrides {
		if err := v.BindEnv(k, env); err != nil {
			return nil, &Error{Path: abs, Err: err}
		}
	}

	values := make(map[string]string)
	for _, k := range v.AllKeys() {
		if !v.IsSet(k) {
			continue
		}
		values[k] = strings.TrimSpace(v.GetString(k))
	}

	c := &Config{path: abs, values: values}
	if err := c.parse(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parse() error {
	var err error
	if c.baseURL, err = c.required(SectionCommon, "baseURL"); err != nil {
		return err
	}
	if c.apiURL, err = c.required(SectionCommon, "apiURL"); err != nil {
		return err
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	c.apiURL = strings.TrimRight(c.apiURL, "/")
	c.shopURL = c.optional(SectionCommon, "shopURL", "")

	if c.browser, err = c.required(SectionSelenium, "browser"); err != nil {
		return err
	}
	c.browser = strings.ToLower(c.browser)

	c.engine = strings.ToLower(c.optional(SectionSelenium, "driver", EnginePlaywright))
	if c.engine != EnginePlaywright && c.engine != EngineRod {
		return c.invalid(SectionSelenium, "driver", fmt.Errorf("unknown engine %q", c.engine))
	}

	wait, err := c.required(SectionSelenium, "implicit_wait")
	if err != nil {
		return err
	}
	seconds, perr := strconv.Atoi(wait)
	if perr != nil || seconds < 0 {
		return c.invalid(SectionSelenium, "implicit_wait", fmt.Errorf("want non-negative integer seconds, got %q", wait))
	}
	c.implicitWait = time.Duration(seconds) * time.Second

	if c.headless, err = c.boolean(SectionSelenium, "headless", true); err != nil {
		return err
	}
	if c.noSandbox, err = c.boolean(SectionSelenium, "no_sandbox", true); err != nil {
		return err
	}
	if c.windowWidth, c.windowHeight, err = c.windowSize(); err != nil {
		return err
	}

	if c.screenshotsDir, err = c.required(SectionPaths, "screenshots_dir"); err != nil {
		return err
	}
	if c.logsDir, err = c.required(SectionPaths, "logs_dir"); err != nil {
		return err
	}
	c.screenshotsDir = c.resolve(c.screenshotsDir)
	c.logsDir = c.resolve(c.logsDir)
	if data := c.optional(SectionPaths, "login_data", ""); data != "" {
		c.loginData = c.resolve(data)
	}

	c.logLevel = strings.ToLower(c.optional(SectionLogging, "level", "info"))
	return nil
}

// Get returns the raw value of key in section.
func (c *Config) Get(section, name string) (string, error) {
	val, ok := c.values[key(section, name)]
	if !ok || val == "" {
		return "", &Error{Path: c.path, Section: section, Key: name, Err: ErrMissingKey}
	}
	return val, nil
}

// Path returns the absolute path of the backing file.
func (c *Config) Path() string { return c.path }

// BaseURL returns the frontend base URL without a trailing slash.
func (c *Config) BaseURL() string { return c.baseURL }

// APIURL returns the backend base URL without a trailing slash.
func (c *Config) APIURL() string { return c.apiURL }

// ShopURL returns the demo shop URL, or "" when not configured.
func (c *Config) ShopURL() string { return c.shopURL }

// Browser returns the browser name, lower-cased.
func (c *Config) Browser() string { return c.browser }

// Engine returns the automation engine (playwright or rod).
func (c *Config) Engine() string { return c.engine }

// ImplicitWait returns the default bounded wait applied to element lookups.
func (c *Config) ImplicitWait() time.Duration { return c.implicitWait }

// Headless reports whether the browser runs without a visible window.
func (c *Config) Headless() bool { return c.headless }

// NoSandbox reports whether sandboxing flags are disabled for the browser process.
func (c *Config) NoSandbox() bool { return c.noSandbox }

// WindowSize returns the browser viewport dimensions.
func (c *Config) WindowSize() (width, height int) { return c.windowWidth, c.windowHeight }

// ScreenshotsDir returns the absolute directory for failure screenshots.
func (c *Config) ScreenshotsDir() string { return c.screenshotsDir }

// LogsDir returns the absolute directory for the suite log file.
func (c *Config) LogsDir() string { return c.logsDir }

// LoginDataPath returns the data-driven login workbook path, or "" when not configured.
func (c *Config) LoginDataPath() string { return c.loginData }

// LogLevel returns the minimum level written to the suite log.
func (c *Config) LogLevel() string { return c.logLevel }

// Credentials returns the username/password pair configured for role.
func (c *Config) Credentials(role Role) (Credentials, error) {
	user, err := c.Get(SectionCredentials, string(role)+"_username")
	if err != nil {
		return Credentials{}, err
	}
	pass, err := c.Get(SectionCredentials, string(role)+"_password")
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: user, Password: pass}, nil
}

func (c *Config) required(section, name string) (string, error) {
	return c.Get(section, name)
}

func (c *Config) optional(section, name, def string) string {
	if val, ok := c.values[key(section, name)]; ok && val != "" {
		return val
	}
	return def
}

func (c *Config) boolean(section, name string, def bool) (bool, error) {
	raw := c.optional(section, name, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, c.invalid(section, name, err)
	}
	return b, nil
}

func (c *Config) windowSize() (int, int, error) {
	raw := c.optional(SectionSelenium, "window_size", "1920,1080")
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == 'x' || r == 'X' })
	if len(parts) != 2 {
		return 0, 0, c.invalid(SectionSelenium, "window_size", fmt.Errorf("want WIDTH,HEIGHT, got %q", raw))
	}
	w, werr := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, herr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return 0, 0, c.invalid(SectionSelenium, "window_size", fmt.Errorf("want positive integers, got %q", raw))
	}
	return w, h, nil
}

func (c *Config) invalid(section, name string, err error) error {
	return &Error{Path: c.path, Section: section, Key: name, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
}

// resolve anchors relative paths at the directory holding the config file.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// key builds the viper lookup key; viper lower-cases everything.
func key(section, name string) string {
	return strings.ToLower(section + "." + name)
}

// Setting is one loaded key.
type Setting struct {
	Section string
	Key     string
	Value   string
}

// Settings returns every loaded key in sorted order. Password values are redacted.
func (c *Config) Settings() []Setting {
	out := make([]Setting, 0, len(c.values))
	for k, v := range c.values {
		section, name, _ := strings.Cut(k, ".")
		if strings.HasSuffix(name, "password") && v != "" {
			v = "[redacted]"
		}
		out = append(out, Setting{Section: section, Key: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr)
}
