package inventory

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestState_Stats(t *testing.T) {
	s := NewSeededState(testNow)

	stats := s.Stats()
	assert.Equal(t, 4, stats.TotalItems)
	// Organic Cotton Tee (12 <= 15) and Solar Charger (8 <= 10)
	assert.Equal(t, 2, stats.LowStockItems)
	assert.InDelta(t, 45*25.99+12*19.50+120*4.99+8*89.00, stats.TotalValue, 0.0001)
	require.Len(t, stats.RecentTransactions, 2)
	assert.Equal(t, "t2", stats.RecentTransactions[0].ID)
}

func TestState_Stats_NewestFirst(t *testing.T) {
	s := NewSeededState(testNow)
	_, err := s.RecordMovement("3", TransactionOut, 1, "bob", testNow.Add(time.Minute))
	require.NoError(t, err)

	stats := s.Stats()
	require.Len(t, stats.RecentTransactions, 3)
	assert.Equal(t, "Bamboo Toothbrush", stats.RecentTransactions[0].ProductName)
}

func TestState_StockChart(t *testing.T) {
	s := NewState()
	for i := 0; i < 8; i++ {
		require.NoError(t, s.Add(Product{ID: fmt.Sprint(i), Name: fmt.Sprintf("Product number %d", i), Quantity: i, MinStock: 3}))
	}

	bars := s.StockChart(DashboardChartLimit)
	require.Len(t, bars, 6)
	assert.Equal(t, "Product nu...", bars[0].Name)
	assert.True(t, bars[3].Low)
	assert.False(t, bars[4].Low)

	short := NewSeededState(testNow).StockChart(DashboardChartLimit)
	require.Len(t, short, 4)
	assert.Equal(t, "Eco Water ...", short[0].Name)
	assert.Equal(t, "Solar Char...", short[3].Name)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "25.99", FormatPrice(25.99))
	assert.Equal(t, "19.5", FormatPrice(19.50))
	assert.Equal(t, "89", FormatPrice(89))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestState_ExportWorkbook(t *testing.T) {
	s := NewSeededState(testNow)

	var buf bytes.Buffer
	require.NoError(t, s.ExportWorkbook(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{productsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Organic Cotton Tee", rows[2][1])
	assert.Equal(t, "TS-102", rows[2][3])

	total, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "4", total)

	low, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(low, "2"))
}
