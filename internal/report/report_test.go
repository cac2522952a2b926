package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"barangay-health-server/internal/models"
)

func TestRowBuilders(t *testing.T) {
	born := time.Date(1950, time.January, 20, 0, 0, 0, 0, time.UTC)

	t.Run("senior citizens", func(t *testing.T) {
		sheet := SeniorCitizens([]*models.SeniorCitizen{{
			Person:    models.Person{FirstName: "Lola", LastName: "Basyang"},
			BirthDate: born,
			Age:       74,
			Systolic:  130,
			Diastolic: 85,
			Medicines: []string{"Losartan", "Metformin"},
		}})
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, len(sheet.Headers), len(sheet.Rows[0]))
		assert.Equal(t, "1950-01-20", sheet.Rows[0][2])
		assert.Equal(t, "130/85", sheet.Rows[0][5])
		assert.Equal(t, "Losartan, Metformin", sheet.Rows[0][6])
	})

	t.Run("households", func(t *testing.T) {
		sheet := Households([]*models.Household{{
			Name: "Dela Cruz",
			Type: models.HouseholdNuclear,
			NHTS: true,
			Members: []models.Member{
				{FirstName: "Rosa", LastName: "Dela Cruz", Gender: models.GenderFemale, Occupation: "Vendor"},
			},
		}})
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "Yes", sheet.Rows[0][2])
		assert.Equal(t, "No", sheet.Rows[0][3])
		assert.Equal(t, "Rosa Dela Cruz (female, Vendor)", sheet.Rows[0][6])
	})

	t.Run("empty list keeps headers", func(t *testing.T) {
		sheet := FamilyPlanning(nil)
		assert.Empty(t, sheet.Rows)
		assert.Contains(t, sheet.Headers, "Control Method")
	})
}

func TestRender(t *testing.T) {
	sheet := Pregnant([]*models.Pregnant{{
		Person:    models.Person{FirstName: "Maria", LastName: "Santos"},
		BirthDate: time.Date(1995, time.March, 10, 0, 0, 0, 0, time.UTC),
		Age:       29,
		Systolic:  110,
		Diastolic: 70,
	}})

	raw, err := Render(sheet)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Pregnant"}, f.GetSheetList())
	rows, err := f.GetRows("Pregnant")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, sheet.Headers, rows[0])
	assert.Equal(t, "Maria", rows[1][0])
	assert.Equal(t, "1995-03-10", rows[1][2])
	assert.Equal(t, "110/70", rows[1][6])
}
