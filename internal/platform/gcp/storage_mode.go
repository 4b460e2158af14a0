package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// ResolveStorageMode picks the mode from an explicit value, falling back to the
// emulator when only an emulator host is configured.
func ResolveStorageMode(raw, emulatorHost string) (StorageMode, error) {
	emulatorHost = strings.TrimSpace(emulatorHost)
	switch mode := StorageMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		if emulatorHost != "" {
			return StorageModeGCSEmulator, validateEmulatorHost(emulatorHost)
		}
		return StorageModeGCS, nil
	case StorageModeGCS:
		return mode, nil
	case StorageModeGCSEmulator:
		return mode, validateEmulatorHost(emulatorHost)
	default:
		return "", fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", raw, StorageModeGCS, StorageModeGCSEmulator)
	}
}

func validateEmulatorHost(host string) error {
	if host == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", StorageModeGCSEmulator)
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", host)
	}
	return nil
}
