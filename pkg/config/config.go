package config

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".runmod"
	configFile string = "config.yml"
)

// DefaultDisplayMethods are the method names that mark a type as a window
// type when no display-methods are configured.
var DefaultDisplayMethods = []string{"Show"}

// DefaultConstructorPrefixes are the name prefixes of package functions
// used as zero-argument constructors when none are configured.
var DefaultConstructorPrefixes = []string{"New"}

// Config defines all configuration options available to be set through the config file.
type Config struct {
	// DisplayMethods lists the methods a type must expose, with no
	// arguments, to be treated as a window type.
	DisplayMethods []string `yaml:"display-methods"`
	// ConstructorPrefixes lists the prefixes that, followed by a type
	// name, identify the zero-argument constructor of that type.
	ConstructorPrefixes []string `yaml:"constructor-prefixes"`

	// KeepAlive controls the "press enter to exit" wait after an entry
	// point has been invoked. Defaults to true.
	KeepAlive *bool `yaml:"keep-alive,omitempty"`

	// Color enables ANSI colors in member and type reports when the
	// output is a terminal.
	Color bool `yaml:"color"`

	// ShowNonInvocable includes members that were found in the debug
	// info but could not be bound to a live symbol in member reports.
	ShowNonInvocable bool `yaml:"show-non-invocable"`
}

// GetDisplayMethods returns the configured display methods or the defaults.
func (c *Config) GetDisplayMethods() []string {
	if c == nil || len(c.DisplayMethods) == 0 {
		return DefaultDisplayMethods
	}
	return c.DisplayMethods
}

// GetConstructorPrefixes returns the configured constructor prefixes or the defaults.
func (c *Config) GetConstructorPrefixes() []string {
	if c == nil || len(c.ConstructorPrefixes) == 0 {
		return DefaultConstructorPrefixes
	}
	return c.ConstructorPrefixes
}

// GetKeepAlive reports whether the keep-alive wait is enabled.
func (c *Config) GetKeepAlive() bool {
	if c == nil || c.KeepAlive == nil {
		return true
	}
	return *c.KeepAlive
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() *Config {
	err := createConfigPath()
	if err != nil {
		fmt.Printf("Could not create config directory: %v.", err)
		return &Config{}
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		fmt.Printf("Unable to get config file path: %v.", err)
		return &Config{}
	}
	c, err := loadConfigFile(fullConfigFile)
	if err != nil {
		fmt.Printf("%v.", err)
		return &Config{}
	}
	return c
}

func loadConfigFile(fullConfigFile string) (*Config, error) {
	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			return nil, fmt.Errorf("error creating default config file: %v", err)
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			fmt.Printf("Closing config file failed: %v.", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read config data: %v", err)
	}

	var c Config
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config file: %v", err)
	}

	return &c, nil
}

// SaveConfig will marshal and save the config struct
// to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}
	return saveConfigFile(conf, fullConfigFile)
}

func saveConfigFile(conf *Config, fullConfigFile string) error {
	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

// Set changes the option named key, as spelled in the config file, to
// value. Lists are given as comma separated names.
func (c *Config) Set(key, value string) error {
	switch key {
	case "display-methods":
		c.DisplayMethods = splitList(value)
	case "constructor-prefixes":
		c.ConstructorPrefixes = splitList(value)
	case "keep-alive", "color", "show-non-invocable":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		switch key {
		case "keep-alive":
			c.KeepAlive = &b
		case "color":
			c.Color = b
		case "show-non-invocable":
			c.ShowNonInvocable = b
		}
	default:
		return fmt.Errorf("unknown configuration option %q", key)
	}
	return nil
}

func splitList(value string) []string {
	var r []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			r = append(r, s)
		}
	}
	return r
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for runmod.

# This is the default configuration file. Available options are provided, but disabled.
# Delete the leading hash mark to enable an item.

# Methods that, when a type has one of them with no arguments, make the type
# a window type. Window types are constructed and shown instead of called.
# display-methods: ["Show"]

# Name prefixes used to find the zero-argument constructor of a type, for
# example NewHello for type Hello.
# constructor-prefixes: ["New"]

# Wait for enter to be pressed after an entry point has been invoked.
# keep-alive: true

# Uncomment the following line to print colored reports on terminals.
# color: true

# Include members that have debug info but no live symbol in reports.
# show-non-invocable: true
`)
	return err
}

// createConfigPath creates the directory structure at which all config files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDir, file), nil
}
