package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/feedgate/feedgate/internal/catalog"
)

// HardwareLookup resolves catalog entries during payload validation.
// The catalog repository satisfies it directly; tests use a fake.
type HardwareLookup interface {
	GetByID(ctx context.Context, id int64) (*catalog.Hardware, error)
}

// ValidatePayload checks a node payload against the catalog before it
// reaches storage.
//
// The checks run in a fixed order and the first failure is returned;
// clients depend on the deterministic precedence:
//
//  1. The primary hardware must exist.
//  2. The primary hardware must not be of type sensor.
//  3. sensor_ids and sensor_names must have equal length.
//  4. Every sensor id must reference existing hardware of type sensor.
//
// Lookup failures other than not-found (storage errors) propagate
// unchanged.
func ValidatePayload(ctx context.Context, p *Payload, lookup HardwareLookup) error {
	hw, err := lookup.GetByID(ctx, p.HardwareID)
	if err != nil {
		if errors.Is(err, catalog.ErrHardwareNotFound) {
			return catalog.ErrHardwareNotFound
		}
		return fmt.Errorf("looking up hardware %d: %w", p.HardwareID, err)
	}

	if hw.Type == catalog.TypeSensor {
		return ErrNodeHardwareIsSensor
	}

	if len(p.SensorIDs) != len(p.SensorNames) {
		return ErrSensorCountMismatch
	}

	for _, id := range p.SensorIDs {
		sensor, err := lookup.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrHardwareNotFound) {
				return ErrSensorNotFound
			}
			return fmt.Errorf("looking up sensor %d: %w", id, err)
		}
		if sensor.Type != catalog.TypeSensor {
			return ErrSensorTypeInvalid
		}
	}

	return nil
}
