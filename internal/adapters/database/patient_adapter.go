package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
)

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var patientColumns = []interface{}{
	"id", "name", "phone", "alt_phone", "doctor_id",
	"doctor_name", "doctor_phone", "active", "created_at", "updated_at",
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"id": id, "active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	patient, err := a.scanOne(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}
	return patient, nil
}

// FindByPhone resolves a patient from a raw WhatsApp phone number. WhatsApp
// sends numbers in international digit form while patients are registered
// with local formatting, so matching compares digit suffixes of decreasing
// length against both stored numbers.
func (a *PatientAdapter) FindByPhone(ctx context.Context, phone string) (*entities.Patient, error) {
	normalized := entities.NormalizePhone(phone)
	if normalized == "" {
		return nil, nil
	}

	for _, suffix := range entities.PhoneSuffixes(normalized) {
		patient, err := a.findBySuffix(ctx, normalized, suffix)
		if err != nil {
			return nil, err
		}
		if patient != nil {
			return patient, nil
		}
	}
	return nil, nil
}

func (a *PatientAdapter) findBySuffix(ctx context.Context, normalized, suffix string) (*entities.Patient, error) {
	pattern := "%" + suffix + "%"
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(
			goqu.Ex{"active": true},
			goqu.Or(
				goqu.L("REGEXP_REPLACE(phone, '[^0-9]', '', 'g') LIKE ?", pattern),
				goqu.L("REGEXP_REPLACE(COALESCE(alt_phone, ''), '[^0-9]', '', 'g') LIKE ?", pattern),
			),
		).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build phone query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query patients by phone", err)
	}
	defer rows.Close()

	for rows.Next() {
		patient, err := a.scanOne(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient", err)
		}
		if phoneMatches(patient, normalized, suffix) {
			return patient, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patients", err)
	}
	return nil, nil
}

// phoneMatches re-checks the suffix match in Go. The SQL LIKE is the coarse
// filter; this guards against collations and partially-stored numbers.
// Containment rather than ends-with, so stored numbers with trailing
// extension digits still resolve.
func phoneMatches(patient *entities.Patient, normalized, suffix string) bool {
	for _, candidate := range patient.PhoneCandidates() {
		candidateDigits := entities.NormalizePhone(candidate)
		if candidateDigits == "" {
			continue
		}
		if candidateDigits == normalized || strings.Contains(candidateDigits, suffix) || strings.Contains(normalized, candidateDigits) {
			return true
		}
	}
	return false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *PatientAdapter) scanOne(row rowScanner) (*entities.Patient, error) {
	patient := &entities.Patient{}
	var altPhone, doctorName, doctorPhone sql.NullString

	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Phone,
		&altPhone,
		&patient.DoctorID,
		&doctorName,
		&doctorPhone,
		&patient.Active,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	patient.AltPhone = altPhone.String
	patient.DoctorName = doctorName.String
	patient.DoctorPhone = doctorPhone.String
	return patient, nil
}
