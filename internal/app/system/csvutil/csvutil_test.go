package csvutil_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pujahub/internal/app/system/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafe(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Decoration", "Decoration"},
		{"=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"+91 98765", "'+91 98765"},
		{"@cmd", "'@cmd"},
		{"-1000.00", "-1000.00"},
		{"-x", "'-x"},
		{"+5", "+5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvutil.Safe(tt.in), tt.in)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := csvutil.NewWriter(&buf)
	require.NoError(t, w.Write("Item", "Note"))
	require.NoError(t, w.Write("Lights, stage", "=HYPERLINK(\"x\")"))
	require.NoError(t, w.Flush())

	assert.Equal(t, "Item,Note\n\"Lights, stage\",\"'=HYPERLINK(\"\"x\"\")\"\n", buf.String())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1000.50", csvutil.Money(1000.5))
	assert.Equal(t, "-0.10", csvutil.Money(-0.1))
	assert.Equal(t, "0.00", csvutil.Money(0))
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	csvutil.Attachment(rec, "budget-\"durga\".csv")
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="budget-durga.csv"`, rec.Header().Get("Content-Disposition"))
}
