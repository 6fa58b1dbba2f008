package configuration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotScalar is an error that occurs when a configuration file holds a
	// nested structure where a plain value is expected.
	ErrNotScalar = errors.New("value is not a scalar")

	// ErrInvalidValue is an error that occurs when a configuration value
	// cannot be converted to the type of its setting.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Provider reads key/value configuration files.
type Provider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler is the principal implementation for loading a [Configuration].
type Handler struct {
	ConfigProvider Provider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(provider Provider) *Handler {
	return &Handler{
		ConfigProvider: provider,
	}
}

// Load reads the given files and returns a new [Configuration] holding the
// defaults overridden by any settings found in them.
func (c *Handler) Load(filenames ...string) (*Configuration, error) {
	envMap, err := c.ConfigProvider.Read(filenames...)
	if err != nil {
		return nil, fmt.Errorf("(config) failed to read: %w", err)
	}

	conf, err := c.Apply(New(), envMap)
	if err != nil {
		return nil, err
	}

	return conf, nil
}

// Apply returns a copy of base with the settings of envMap applied to it.
func (c *Handler) Apply(base *Configuration, envMap map[string]string) (*Configuration, error) {
	conf := base.Clone()

	if v, ok := c.MapKeyToString(envMap, SettingDefaultFS); ok {
		conf.DefaultFS = v
	}

	for key, value := range envMap {
		if scheme, found := strings.CutPrefix(key, SettingImplPrefix); found && scheme != "" && value != "" {
			conf.Impls[strings.ToLower(scheme)] = value
		}
	}

	if v, ok := c.MapKeyToString(envMap, SettingWebHDFSAddress); ok {
		conf.WebHDFS.Address = v
	}
	if v, ok := c.MapKeyToString(envMap, SettingWebHDFSUser); ok {
		conf.WebHDFS.User = v
	}

	port, ok, err := c.MapKeyToInt(envMap, SettingWebHDFSPort)
	if err != nil {
		return nil, err
	} else if ok {
		conf.WebHDFS.Port = port
	}

	timeout, ok, err := c.MapKeyToDuration(envMap, SettingWebHDFSTimeout)
	if err != nil {
		return nil, err
	} else if ok {
		conf.WebHDFS.Timeout = timeout
	}

	if v, ok := c.MapKeyToString(envMap, SettingS3Endpoint); ok {
		conf.S3.Endpoint = v
	}
	if v, ok := c.MapKeyToString(envMap, SettingS3Region); ok {
		conf.S3.Region = v
	}
	if v, ok := c.MapKeyToString(envMap, SettingS3AccessKey); ok {
		conf.S3.AccessKeyID = v
	}
	if v, ok := c.MapKeyToString(envMap, SettingS3SecretKey); ok {
		conf.S3.SecretAccessKey = v
	}

	useSSL, ok, err := c.MapKeyToBool(envMap, SettingS3UseSSL)
	if err != nil {
		return nil, err
	} else if ok {
		conf.S3.UseSSL = useSSL
	}

	return conf, nil
}

// MapKeyToString returns the non-empty value of key, if there is one.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) (string, bool) {
	if value, exists := envMap[key]; exists && value != "" {
		return value, true
	}

	return "", false
}

// MapKeyToInt returns the value of key as an int, if there is one.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) (int, bool, error) {
	value, ok := c.MapKeyToString(envMap, key)
	if !ok {
		return 0, false, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("(config) %w: %s=%q", ErrInvalidValue, key, value)
	}

	return intValue, true, nil
}

// MapKeyToBool returns the value of key as a bool, if there is one.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) (bool, bool, error) {
	value, ok := c.MapKeyToString(envMap, key)
	if !ok {
		return false, false, nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, fmt.Errorf("(config) %w: %s=%q", ErrInvalidValue, key, value)
	}

	return boolValue, true, nil
}

// MapKeyToDuration returns the value of key as a [time.Duration], if there
// is one.
func (c *Handler) MapKeyToDuration(envMap map[string]string, key string) (time.Duration, bool, error) {
	value, ok := c.MapKeyToString(envMap, key)
	if !ok {
		return 0, false, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("(config) %w: %s=%q", ErrInvalidValue, key, value)
	}

	return duration, true, nil
}
