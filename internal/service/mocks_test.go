package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chuckk589/devovers/internal/models"
)

type mockConfigRepo struct {
	mock.Mock
}

func (m *mockConfigRepo) GetScheduleConfig(ctx context.Context) (*models.ScheduleConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleConfig), args.Error(1)
}
func (m *mockConfigRepo) CreateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	return m.Called(ctx, cfg).Error(0)
}
func (m *mockConfigRepo) UpdateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAppointmentRepo) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}
func (m *mockAppointmentRepo) GetActiveAppointmentsByDateRange(ctx context.Context, startKey, endKey string) ([]models.Appointment, error) {
	args := m.Called(ctx, startKey, endKey)
	return args.Get(0).([]models.Appointment), args.Error(1)
}
func (m *mockAppointmentRepo) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Appointment), args.Error(1)
}
func (m *mockAppointmentRepo) GetUserAppointments(ctx context.Context, userID int64) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Appointment), args.Error(1)
}
func (m *mockAppointmentRepo) AppointmentCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
func (m *mockAppointmentRepo) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBlockRepo) GetBlockedSlotsByDateRange(ctx context.Context, startKey, endKey string) ([]models.BlockedSlot, error) {
	args := m.Called(ctx, startKey, endKey)
	return args.Get(0).([]models.BlockedSlot), args.Error(1)
}
func (m *mockBlockRepo) ListBlockedSlots(ctx context.Context) ([]models.BlockedSlot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.BlockedSlot), args.Error(1)
}
func (m *mockBlockRepo) DeleteBlockedSlot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
