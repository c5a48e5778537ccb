package badgerdb

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

type badgerVehicleRepository struct {
	db *badger.DB
}

func NewVehicleRepository(db *badger.DB) repository.VehicleRepository {
	return &badgerVehicleRepository{db: db}
}

func plateKey(plate string) []byte { return indexKey(colVehicles, "placa", plate) }

func (r *badgerVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if vehicle.ID == "" {
		vehicle.ID = repository.NewID()
	}
	vehicle.CreatedAt = now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, plateKey(vehicle.Plate), vehicle.ID); err != nil {
			return err
		}
		return setJSON(txn, docKey(colVehicles, vehicle.ID), newVehicleDoc(vehicle))
	})
	if err != nil {
		return nil, storeErr("VehicleRepository.Create", err)
	}
	return vehicle, nil
}

func (r *badgerVehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc vehicleDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colVehicles, id), &doc)
	})
	if err != nil {
		return nil, storeErr("VehicleRepository.FindByID", err)
	}
	return doc.toDomain()
}

func (r *badgerVehicleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	var doc vehicleDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, plateKey(plate))
		if err != nil {
			return err
		}
		return getJSON(txn, docKey(colVehicles, id), &doc)
	})
	if err != nil {
		return nil, storeErr("VehicleRepository.FindByPlate", err)
	}
	return doc.toDomain()
}

func (r *badgerVehicleRepository) FindByOwner(ctx context.Context, taxID string) ([]domain.Vehicle, error) {
	return r.find("VehicleRepository.FindByOwner", func(doc vehicleDoc) bool { return doc.ClienteCPF == taxID })
}

func (r *badgerVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	return r.find("VehicleRepository.FindAll", func(vehicleDoc) bool { return true })
}

func (r *badgerVehicleRepository) find(op string, match func(vehicleDoc) bool) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colVehicles, func(doc vehicleDoc) error {
			if !match(doc) {
				return nil
			}
			v, err := doc.toDomain()
			if err != nil {
				return err
			}
			vehicles = append(vehicles, *v)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].Plate < vehicles[j].Plate })
	return vehicles, nil
}

func (r *badgerVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if err := repository.ValidateID(vehicle.ID); err != nil {
		return nil, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current vehicleDoc
		if err := getJSON(txn, docKey(colVehicles, vehicle.ID), &current); err != nil {
			return err
		}
		if current.Placa != vehicle.Plate {
			if err := claimIndex(txn, plateKey(vehicle.Plate), vehicle.ID); err != nil {
				return err
			}
			if err := txn.Delete(plateKey(current.Placa)); err != nil {
				return err
			}
		}
		vehicle.CreatedAt = current.CriadoEm
		vehicle.UpdatedAt = now()
		return setJSON(txn, docKey(colVehicles, vehicle.ID), newVehicleDoc(vehicle))
	})
	if err != nil {
		return nil, storeErr("VehicleRepository.Update", err)
	}
	return vehicle, nil
}

func (r *badgerVehicleRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current vehicleDoc
		if err := getJSON(txn, docKey(colVehicles, id), &current); err != nil {
			return err
		}
		if err := txn.Delete(plateKey(current.Placa)); err != nil {
			return err
		}
		return txn.Delete(docKey(colVehicles, id))
	})
	return storeErr("VehicleRepository.Delete", err)
}
