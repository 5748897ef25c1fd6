package audit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/chuckk589/devovers/internal/models"
)

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "Записи_Январь_2026.xlsx", ReportFilename(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Записи_Декабрь_2025.xlsx", ReportFilename(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildAppointmentsWorkbook(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	assert.NoError(t, err)

	appointments := []models.Appointment{
		{
			Code:       "APP-2026-AAA111",
			Date:       time.Date(2026, 8, 10, 0, 0, 0, 0, moscow),
			TimeSlot:   "10:00",
			Status:     models.StatusCompleted,
			ClientName: "Иван Петров",
			CarBrand:   "Toyota",
			CarModel:   "Corolla",
			ServiceID:  "oil-change",
		},
		{
			Code:          "APP-2026-BBB222",
			Date:          time.Date(2026, 8, 12, 0, 0, 0, 0, moscow),
			TimeSlot:      "14:00",
			Status:        models.StatusConfirmed,
			ClientName:    "Анна Сидорова",
			CarBrand:      "ГАЗель",
			CustomService: "Диагностика подвески",
		},
	}

	data, err := BuildAppointmentsWorkbook(appointments, moscow)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Записи")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, "Номер", rows[0][0])
	assert.Equal(t, "APP-2026-AAA111", rows[1][0])
	assert.Equal(t, "10.08.2026", rows[1][1])
	assert.Equal(t, "oil-change", rows[1][9])
	// A custom service overrides the catalog entry in the report.
	assert.Equal(t, "Диагностика подвески", rows[2][9])
}

func TestWorkbookSheetHandling(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()

	assert.Error(t, wb.WriteHeader([]string{"a"}))
	assert.Error(t, wb.WriteRow([]interface{}{"a"}))

	assert.NoError(t, wb.AddSheet("Первый"))
	assert.NoError(t, wb.AddSheet("appointments archive for the previous period"))

	data, err := wb.Bytes()
	assert.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	assert.Len(t, sheets, 2)
	assert.Equal(t, "Первый", sheets[0])
	assert.LessOrEqual(t, len(sheets[1]), 31)
}
