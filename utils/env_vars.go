package utils

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type envValue interface {
	string | int | int64 | float64 | bool | time.Duration | []string
}

// GetEnv reads an environment variable, returning the default value when it is unset or empty.
// Lists are read as comma separated values.
func GetEnv[T envValue](envVar string, defaultValue T) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := parseEnv[T](raw)
	if err != nil {
		log.Fatalf("%s environment variable is not valid: '%s' (%s)", envVar, raw, err)
	}
	return value
}

func GetRequiredEnv[T envValue](envVar string) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	value, err := parseEnv[T](raw)
	if err != nil {
		log.Fatalf("%s environment variable is not valid: '%s' (%s)", envVar, raw, err)
	}
	return value
}

func parseEnv[T envValue](raw string) (T, error) {
	var out T
	var err error

	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		*p, err = strconv.Atoi(raw)
	case *int64:
		*p, err = strconv.ParseInt(raw, 10, 64)
	case *float64:
		*p, err = strconv.ParseFloat(raw, 64)
	case *bool:
		*p, err = strconv.ParseBool(raw)
	case *time.Duration:
		*p, err = time.ParseDuration(raw)
	case *[]string:
		*p = SplitList(raw)
	}

	return out, err
}

// SplitList splits a comma separated list, trimming spaces and dropping empty items.
func SplitList(raw string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
