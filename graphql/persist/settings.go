/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Mode selects which persisted-query policy an engine enforces.  Each mode is
// a fixed combination of store write permission and bare-query admission; the
// store itself only ever sees Lookup and Save.
type Mode int

const (
	// Disabled: requests pass through with their query text as-is and the
	// store is never consulted.
	Disabled Mode = iota

	// Automatic: Apollo's automatic protocol.  Hash-only requests resolve
	// from the store, query+hash requests resolve immediately and write
	// through best-effort, bare queries execute as-is.
	Automatic

	// Prepared: like Automatic, but over a store seeded at startup and never
	// written at request time.
	Prepared

	// PreparedOnly: Prepared, plus only stored operations may execute - any
	// client-supplied query text is rejected outright.
	PreparedOnly
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Prepared:
		return "prepared"
	case PreparedOnly:
		return "preparedonly"
	default:
		return "disabled"
	}
}

// ParseMode returns the Mode named by s, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "disabled", "":
		return Disabled, nil
	case "automatic":
		return Automatic, nil
	case "prepared":
		return Prepared, nil
	case "preparedonly", "prepared-only":
		return PreparedOnly, nil
	}
	return Disabled, errors.Errorf(
		"unknown persisted query mode %q (want disabled, automatic, prepared or preparedonly)", s)
}

// Settings binds one mode to one store.  Built once at startup, read-only
// afterwards, and shared across every request; concurrency is the store's
// concern alone.
type Settings struct {
	Mode  Mode
	Store QueryStore
}

// NewSettings validates the mode/store pairing.  Misconfiguration is fatal
// here, at construction, never deferred to request time.
func NewSettings(mode Mode, store QueryStore) (*Settings, error) {
	if mode != Disabled && store == nil {
		return nil, errors.Errorf("mode %s requires a persisted query store", mode)
	}
	return &Settings{Mode: mode, Store: store}, nil
}

// Configuration keys understood by SettingsFromConfig.
const (
	modeKey          = "mode"
	manifestKey      = "persisted-queries"
	storeKey         = "store"
	badgerDirKey     = "badger-dir"
	cacheSizeKey     = "cache-size-mb"
	validateKey      = "validate-queries"
	disableSaveKey   = "disable-save"
	deprecatedMapKey = "persisted-query-map"
)

// SettingsFromConfig builds Settings from a viper configuration, typically
// bound to command line flags and APQ_* environment variables.
//
// The old persisted-query-map option (an inline hash to query JSON map) was
// removed along with the design that used it and is rejected outright, so a
// stale deployment fails at startup instead of silently running unseeded.
func SettingsFromConfig(conf *viper.Viper) (*Settings, error) {
	if conf.IsSet(deprecatedMapKey) {
		return nil, errors.Errorf(
			"the %s option has been removed: seed queries from an Apollo manifest file "+
				"with --%s and select a policy with --%s", deprecatedMapKey, manifestKey, modeKey)
	}

	mode, err := ParseMode(conf.GetString(modeKey))
	if err != nil {
		return nil, err
	}
	if mode == Disabled {
		return NewSettings(Disabled, nil)
	}

	if mode == Prepared || mode == PreparedOnly {
		path := conf.GetString(manifestKey)
		if path == "" {
			return nil, errors.Errorf("mode %s requires --%s", mode, manifestKey)
		}
		seed, err := ReadManifest(path)
		if err != nil {
			return nil, err
		}
		if conf.GetBool(validateKey) {
			if err := ValidateQueries(seed); err != nil {
				return nil, err
			}
		}
		return NewSettings(mode, NewPreparedStore(seed))
	}

	store, err := storeFromConfig(conf)
	if err != nil {
		return nil, err
	}
	if conf.GetBool(disableSaveKey) {
		store = WithoutSave(store)
	}
	return NewSettings(Automatic, store)
}

func storeFromConfig(conf *viper.Viper) (QueryStore, error) {
	kind := conf.GetString(storeKey)
	switch strings.ToLower(kind) {
	case "", "memory":
		return NewMemStore(), nil
	case "ristretto":
		store, err := NewRistrettoStore(conf.GetInt64(cacheSizeKey) << 20)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "badger":
		dir := conf.GetString(badgerDirKey)
		if dir == "" {
			return nil, errors.Errorf("store badger requires --%s", badgerDirKey)
		}
		store, err := OpenBadgerStore(dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, errors.Errorf("unknown store %q (want memory, ristretto or badger)", kind)
}
