package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/saloonly/booking-api/internal/repository"
)

type scheduleRepository struct {
	db *sqlx.DB
}

type serviceRepository struct {
	db *sqlx.DB
}

type collaboratorRepository struct {
	db *sqlx.DB
}

type establishmentRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewCollaboratorRepository(db *sqlx.DB) repository.CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func NewEstablishmentRepository(db *sqlx.DB) repository.EstablishmentRepository {
	return &establishmentRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
