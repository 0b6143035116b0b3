package domain

import "strings"

const (
	FieldPhoneID    = "phone_id"
	FieldIdentityID = "identity_id"
	FieldVehicleKey = "vehicle_key"
	FieldPrivateKey = "private_key"
)

// CredentialBundle is the per-vehicle phone key material attached to every command.
type CredentialBundle struct {
	PhoneID    string `json:"phone_id" msgpack:"phone_id"`
	IdentityID string `json:"identity_id" msgpack:"identity_id"`
	VehicleKey string `json:"vehicle_key" msgpack:"vehicle_key"`
	PrivateKey string `json:"private_key" msgpack:"private_key"`
}

// MissingFields returns the names of the fields that are empty after trimming.
func (b CredentialBundle) MissingFields() []string {
	missing := make([]string, 0)
	fields := []struct {
		name  string
		value string
	}{
		{FieldPhoneID, b.PhoneID},
		{FieldIdentityID, b.IdentityID},
		{FieldVehicleKey, b.VehicleKey},
		{FieldPrivateKey, b.PrivateKey},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (b CredentialBundle) IsComplete() bool {
	return len(b.MissingFields()) == 0
}

func (b CredentialBundle) Validate() error {
	if missing := b.MissingFields(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Masked returns a copy safe to show in a UI.
func (b CredentialBundle) Masked() CredentialBundle {
	masked := b
	masked.PrivateKey = mask(b.PrivateKey)
	masked.VehicleKey = mask(b.VehicleKey)
	return masked
}

func mask(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

func NewCredentialBundleBuilder() *credentialBundleBuilder {
	return &credentialBundleBuilder{}
}

type credentialBundleBuilder struct {
	actions []credentialBundleHandler
}

type credentialBundleHandler func(v *CredentialBundle) error

func (b *credentialBundleBuilder) WithPhoneID(value string) *credentialBundleBuilder {
	b.actions = append(b.actions, func(d *CredentialBundle) error {
		d.PhoneID = value
		return nil
	})
	return b
}

func (b *credentialBundleBuilder) WithIdentityID(value string) *credentialBundleBuilder {
	b.actions = append(b.actions, func(d *CredentialBundle) error {
		d.IdentityID = value
		return nil
	})
	return b
}

func (b *credentialBundleBuilder) WithVehicleKey(value string) *credentialBundleBuilder {
	b.actions = append(b.actions, func(d *CredentialBundle) error {
		d.VehicleKey = value
		return nil
	})
	return b
}

func (b *credentialBundleBuilder) WithPrivateKey(value string) *credentialBundleBuilder {
	b.actions = append(b.actions, func(d *CredentialBundle) error {
		d.PrivateKey = value
		return nil
	})
	return b
}

func (b *credentialBundleBuilder) Build() (CredentialBundle, error) {
	var result CredentialBundle
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return CredentialBundle{}, err
		}
	}
	if err := result.Validate(); err != nil {
		return CredentialBundle{}, err
	}
	return result, nil
}
