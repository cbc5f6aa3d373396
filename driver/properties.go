package driver

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Properties is the opaque string configuration handed to Db.Init. Credentials travel
// as ordinary keys.
type Properties map[string]string

// Returns the value of key, failing with ErrConfig when it is missing or blank
func (p Properties) Required(key string) (string, error) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: missing property %q", ErrConfig, key)
	}
	return v, nil
}

func (p Properties) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Properties) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: property %q: %v", ErrConfig, key, err)
	}
	return i, nil
}

func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: property %q: %v", ErrConfig, key, err)
	}
	return b, nil
}

func (p Properties) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: property %q: %v", ErrConfig, key, err)
	}
	return d, nil
}

// Returns the comma separated values of key, without blanks
func (p Properties) List(key string) []string {
	values := []string{}
	for _, v := range strings.Split(p[key], ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
