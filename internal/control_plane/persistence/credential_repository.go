package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"vehicle-dashboard/internal/control_plane/persistence/internal"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/secret"
	"vehicle-dashboard/internal/infra/sql"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

var ErrSealedCredentials = errors.New("credentials are sealed and no encryption key is configured")

func NewCredentialRepository(orm sql.ORM, sealer secret.Sealer) (*SimpleCredentialRepository, error) {
	err := orm.AutoMigrate(&internal.Credential{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	if sealer == nil {
		sealer = secret.Plaintext{}
	}
	_, plaintext := sealer.(secret.Plaintext)

	return &SimpleCredentialRepository{
		orm:    orm,
		sealer: sealer,
		sealed: !plaintext,
	}, nil
}

var _ usecases.KeyStore = (*SimpleCredentialRepository)(nil)

// SimpleCredentialRepository persists one bundle per vehicle. Bundles are
// bound to their vehicle id when sealed.
type SimpleCredentialRepository struct {
	orm    sql.ORM
	sealer secret.Sealer
	sealed bool
}

func (r *SimpleCredentialRepository) Get(ctx context.Context, vehicleID domain.VehicleID) (domain.CredentialBundle, error) {
	var entity internal.Credential
	err := r.orm.
		WithContext(ctx).
		First(&entity, "vehicle_id = ?", vehicleID.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.CredentialBundle{}, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return domain.CredentialBundle{}, fmt.Errorf("database query: %w", err)
	}

	data := entity.Bundle
	if entity.Sealed {
		if !r.sealed {
			return domain.CredentialBundle{}, ErrSealedCredentials
		}
		data, err = r.sealer.Open(entity.Bundle, []byte(entity.VehicleID))
		if err != nil {
			return domain.CredentialBundle{}, fmt.Errorf("opening bundle: %w", err)
		}
	}

	return internal.UnmarshalBundle(data)
}

func (r *SimpleCredentialRepository) Set(ctx context.Context, vehicleID domain.VehicleID, bundle domain.CredentialBundle) error {
	if strings.TrimSpace(vehicleID.String()) == "" {
		return &domain.ValidationError{Fields: []string{"vehicle_id"}}
	}
	if err := bundle.Validate(); err != nil {
		return err
	}

	data, err := internal.MarshalBundle(bundle)
	if err != nil {
		return err
	}

	data, err = r.sealer.Seal(data, []byte(vehicleID.String()))
	if err != nil {
		return fmt.Errorf("sealing bundle: %w", err)
	}

	entity := internal.Credential{
		VehicleID: vehicleID.String(),
		Bundle:    data,
		Sealed:    r.sealed,
	}
	err = r.orm.WithContext(ctx).Save(&entity).Error()
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	slog.Info("vehicle credentials stored",
		slog.String("vehicle_id", vehicleID.String()),
		slog.Bool("sealed", r.sealed))
	return nil
}

func (r *SimpleCredentialRepository) Clear(ctx context.Context, vehicleID domain.VehicleID) error {
	err := r.orm.
		WithContext(ctx).
		Delete(&internal.Credential{}, "vehicle_id = ?", vehicleID.String()).
		Error()
	if err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
