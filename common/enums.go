// Package common keeps small enumerations shared between configuration,
// storage and style generation so none of them has to import the others.
package common

import (
	"fmt"
	"strings"
)

// StorageMode specifies where values of fields belonging to a config are kept.
type StorageMode string

const (
	// StorageModeThemeSetting keeps every field under its own key in the theme
	// settings store.
	StorageModeThemeSetting StorageMode = "theme_mod"
	// StorageModeOption keeps every field under its own key in the options
	// store.
	StorageModeOption StorageMode = "option"
	// StorageModeOptionBlob keeps all fields of a config serialized together
	// in a single named option.
	StorageModeOptionBlob StorageMode = "option_blob"
)

var storageModeNames = []string{
	string(StorageModeThemeSetting),
	string(StorageModeOption),
	string(StorageModeOptionBlob),
}

// StorageModeNames returns list of possible string values of StorageMode.
func StorageModeNames() []string {
	tmp := make([]string, len(storageModeNames))
	copy(tmp, storageModeNames)
	return tmp
}

func (m StorageMode) String() string {
	return string(m)
}

// IsValid checks if value is one of known storage modes.
func (m StorageMode) IsValid() bool {
	for _, n := range storageModeNames {
		if string(m) == n {
			return true
		}
	}
	return false
}

// ParseStorageMode converts string into StorageMode. Empty string selects
// theme settings, "theme_setting" is accepted as alias.
func ParseStorageMode(name string) (StorageMode, error) {
	switch m := StorageMode(strings.ToLower(strings.TrimSpace(name))); m {
	case "", "theme_setting":
		return StorageModeThemeSetting, nil
	default:
		if m.IsValid() {
			return m, nil
		}
	}
	return "", fmt.Errorf("%s is not a valid StorageMode, try [%s]", name, strings.Join(storageModeNames, ", "))
}

// MarshalText implements the text marshaller method.
func (m StorageMode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// UnmarshalText implements the text unmarshaller method.
func (m *StorageMode) UnmarshalText(text []byte) error {
	tmp, err := ParseStorageMode(string(text))
	if err != nil {
		return err
	}
	*m = tmp
	return nil
}

// FieldType is open ended: only some types receive special treatment when
// structured values are turned into CSS.
type FieldType string

const (
	FieldTypeDefault    FieldType = "default"
	FieldTypeTypography FieldType = "typography"
	FieldTypeSpacing    FieldType = "spacing"
)

// FontCheck is result of font URL validation kept in transient cache.
type FontCheck string

const (
	FontCheckValid   FontCheck = "valid"
	FontCheckInvalid FontCheck = "invalid"
)
