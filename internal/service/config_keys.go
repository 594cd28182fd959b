package service

import (
	"sort"
	"strconv"
)

// Config value types
const (
	KeyTypeBoolean = "boolean"
	KeyTypeNumber  = "number"
	KeyTypeString  = "string"
	KeyTypeEnum    = "enum"
)

// KeySpec declares the type and default of one whitelisted config key
type KeySpec struct {
	Type    string
	Default string
	Options []string // enum only
}

// configKeys is the fixed whitelist. Writes to any other key are
// rejected; reads of missing rows fall back to the declared default.
var configKeys = map[string]KeySpec{
	"students.enabled":       {Type: KeyTypeBoolean, Default: "true"},
	"fees.enabled":           {Type: KeyTypeBoolean, Default: "false"},
	"exams.enabled":          {Type: KeyTypeBoolean, Default: "false"},
	"reports.enabled":        {Type: KeyTypeBoolean, Default: "false"},
	"notifications.channel":  {Type: KeyTypeEnum, Default: "none", Options: []string{"none", "email", "sms"}},
	"academics.sessionLabel": {Type: KeyTypeString, Default: ""},
	"limits.maxStudents":     {Type: KeyTypeNumber, Default: "50"},
	"limits.maxBranches":     {Type: KeyTypeNumber, Default: "1"},
	"limits.maxStaff":        {Type: KeyTypeNumber, Default: "5"},
}

// KnownKey reports whether key is whitelisted
func KnownKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// KeySpecFor returns the spec of a whitelisted key
func KeySpecFor(key string) (KeySpec, bool) {
	spec, ok := configKeys[key]
	return spec, ok
}

// SortedKeys returns the whitelist keys in deterministic order
func SortedKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validateValue checks a raw string value against the key's declared type
func validateValue(key string, spec KeySpec, value string) error {
	switch spec.Type {
	case KeyTypeBoolean:
		if value != "true" && value != "false" {
			return errInvalidValue(key, value, `must be "true" or "false"`)
		}
	case KeyTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return errInvalidValue(key, value, "not a valid number")
		}
	case KeyTypeEnum:
		for _, opt := range spec.Options {
			if opt == value {
				return nil
			}
		}
		return errInvalidValue(key, value, "not a valid option")
	}
	return nil
}

// parseValue converts a raw string to the key's declared Go type
func parseValue(spec KeySpec, raw string) interface{} {
	switch spec.Type {
	case KeyTypeBoolean:
		return raw == "true"
	case KeyTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	default:
		return raw
	}
}
