package internal

import (
	"fmt"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/vmihailenco/msgpack/v5"
)

// Credential is one row per vehicle. Bundle holds the msgpack encoded key
// material, sealed when the store has an encryption key.
type Credential struct {
	VehicleID string    `gorm:"primaryKey"`
	Bundle    []byte    `gorm:"not null"`
	Sealed    bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Credential) TableName() string {
	return "vehicle_credentials"
}

type bundleRecord struct {
	PhoneID    string `msgpack:"phone_id"`
	IdentityID string `msgpack:"identity_id"`
	VehicleKey string `msgpack:"vehicle_key"`
	PrivateKey string `msgpack:"private_key"`
}

func MarshalBundle(bundle domain.CredentialBundle) ([]byte, error) {
	data, err := msgpack.Marshal(bundleRecord{
		PhoneID:    bundle.PhoneID,
		IdentityID: bundle.IdentityID,
		VehicleKey: bundle.VehicleKey,
		PrivateKey: bundle.PrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding bundle: %w", err)
	}
	return data, nil
}

func UnmarshalBundle(data []byte) (domain.CredentialBundle, error) {
	var record bundleRecord
	if err := msgpack.Unmarshal(data, &record); err != nil {
		return domain.CredentialBundle{}, fmt.Errorf("decoding bundle: %w", err)
	}
	return domain.CredentialBundle{
		PhoneID:    record.PhoneID,
		IdentityID: record.IdentityID,
		VehicleKey: record.VehicleKey,
		PrivateKey: record.PrivateKey,
	}, nil
}
