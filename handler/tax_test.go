package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/AnnaCarter465/zakat-tax/calculator"
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTaxCalculateTax(t *testing.T) {
	type TC struct {
		reqbody           map[string]interface{}
		want              *TaxResponse
		mockTax           *MockSetting
		mockTaxStatements *MockSetting
		errresp           *ResponseMsg
	}

	tcs := []TC{
		{
			reqbody: map[string]interface{}{
				"salaryIncome": float64(1_000_000),
			},
			mockTax: &MockSetting{
				Args: []interface{}{
					tax.Input{Salary: 1_000_000},
				},
				Returns: []interface{}{
					tax.Result{
						TotalIncome:   1_000_000,
						TaxDue:        20_000,
						NetIncome:     980_000,
						EffectiveRate: 2,
					},
				},
			},
			mockTaxStatements: &MockSetting{
				Args: []interface{}{
					float64(1_000_000),
				},
				Returns: []interface{}{
					[]tax.TaxStatement{
						{Rate: tax.Rate{Percentage: 0, Max: 600_000, Label: "Up to PKR 600,000"}, Taxable: 600_000, Tax: 0},
						{Rate: tax.Rate{Percentage: 0.5, Max: tax.Unbounded, Label: "Above PKR 600,000"}, Taxable: 400_000, Tax: 20_000},
					},
				},
			},
			want: &TaxResponse{
				TotalIncome:   1_000_000,
				TaxDue:        20_000,
				NetIncome:     980_000,
				EffectiveRate: 2,
				TaxLevel: []TaxLevel{
					{Level: "Up to PKR 600,000", Rate: 0, Tax: 0},
					{Level: "Above PKR 600,000", Rate: 50, Tax: 20_000},
				},
			},
			errresp: nil,
		},
		{
			reqbody: map[string]interface{}{
				"salaryIncome": "wrong_input",
			},
			want:    nil,
			errresp: &ResponseMsg{Message: "Bad request"},
		},
		{
			reqbody: map[string]interface{}{
				"salaryIncome":   float64(500_000),
				"propertyIncome": float64(-1),
			},
			want:    nil,
			errresp: &ResponseMsg{Message: "Bad request"},
		},
	}

	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			mockObj := new(CalculatorMock)
			mockObj.On("Brackets").Return(tax.Default().Brackets()).Maybe()

			if tc.mockTax != nil {
				mockObj.On("Tax", tc.mockTax.Args...).Return(tc.mockTax.Returns...)
			}

			if tc.mockTaxStatements != nil {
				mockObj.On("TaxStatements", tc.mockTaxStatements.Args...).Return(tc.mockTaxStatements.Returns...)
			}

			h := NewTaxHandler(validator.New(), mockObj, nullLogger())

			val, _ := json.Marshal(tc.reqbody)

			req := httptest.NewRequest(http.MethodPost, "/tax/calculations", strings.NewReader(string(val)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			e := echo.New()

			goterr := h.CalculateTax(e.NewContext(req, rec))

			assert.NoError(t, goterr)

			if tc.errresp != nil {
				var errresp ResponseMsg

				err := json.Unmarshal(rec.Body.Bytes(), &errresp)
				assert.NoError(t, err)

				assert.NotEqual(t, http.StatusOK, rec.Code)
				assert.Equal(t, *tc.errresp, errresp)
				mockObj.AssertNotCalled(t, "Tax", mock.Anything)

				return
			}

			var got TaxResponse

			err := json.Unmarshal(rec.Body.Bytes(), &got)
			assert.NoError(t, err)

			assert.Equal(t, http.StatusOK, rec.Code)

			if !reflect.DeepEqual(*tc.want, got) {
				assert.Fail(t, fmt.Sprintf("expected %#v, \nbut got %#v", *tc.want, got))
			}

			mockObj.AssertExpectations(t)
		})
	}
}

func TestTaxCalculateTaxWithEngine(t *testing.T) {
	type TC struct {
		body          string
		totalIncome   float64
		taxDue        float64
		netIncome     float64
		effectiveRate float64
	}

	tcs := []TC{
		{`{"salaryIncome":1000000}`, 1_000_000, 20_000, 980_000, 2},
		{`{"salaryIncome":5000000}`, 5_000_000, 930_000, 4_070_000, 18.6},
		{`{"salaryIncome":10000000}`, 10_000_000, 2_630_000, 7_370_000, 26.3},
		{`{}`, 0, 0, 0, 0},
	}

	h := NewTaxHandler(validator.New(), calculator.New(nil), nullLogger())

	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tax/calculations", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			assert.NoError(t, h.CalculateTax(echo.New().NewContext(req, rec)))
			assert.Equal(t, http.StatusOK, rec.Code)

			var got TaxResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			assert.InDelta(t, tc.totalIncome, got.TotalIncome, 1e-6)
			assert.InDelta(t, tc.taxDue, got.TaxDue, 1e-6)
			assert.InDelta(t, tc.netIncome, got.NetIncome, 1e-6)
			assert.InDelta(t, tc.effectiveRate, got.EffectiveRate, 1e-9)
			assert.Len(t, got.TaxLevel, len(tax.Pakistan2024))

			var sum float64
			for _, l := range got.TaxLevel {
				sum += l.Tax
			}
			assert.InDelta(t, tc.taxDue, sum, 1e-6)
		})
	}
}

func TestTaxCalculateTaxOverflow(t *testing.T) {
	h := NewTaxHandler(validator.New(), calculator.New(nil), nullLogger())

	body := `{"salaryIncome":1e308,"businessIncome":1e308}`

	req := httptest.NewRequest(http.MethodPost, "/tax/calculations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	assert.NoError(t, h.CalculateTax(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var got ResponseMsg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ResponseMsg{Message: "Amount too large"}, got)
}

func TestTaxCalculateTaxWithCSV(t *testing.T) {
	type TC struct {
		name        string
		contentType string
		body        string
		want        []TaxCSV
		errresp     *ResponseMsg
	}

	header := "salaryIncome,businessIncome,capitalGains,propertyIncome,otherIncome\n"

	tcs := []TC{
		{
			name:        "three rows",
			contentType: "text/csv",
			body:        header + "1000000,0,0,0,0\n5000000,,,,\n400000,100000,50000,25000,25000\n",
			want: []TaxCSV{
				{TotalIncome: 1_000_000, TaxDue: 20_000, NetIncome: 980_000, EffectiveRate: 2},
				{TotalIncome: 5_000_000, TaxDue: 930_000, NetIncome: 4_070_000, EffectiveRate: 18.6},
				{TotalIncome: 600_000, TaxDue: 0, NetIncome: 600_000, EffectiveRate: 0},
			},
		},
		{
			name:        "charset suffix is accepted",
			contentType: "text/csv; charset=utf-8",
			body:        header + "10000000,0,0,0,0\n",
			want: []TaxCSV{
				{TotalIncome: 10_000_000, TaxDue: 2_630_000, NetIncome: 7_370_000, EffectiveRate: 26.3},
			},
		},
		{
			name:        "json content type",
			contentType: "application/json",
			body:        header,
			errresp:     &ResponseMsg{Message: "Unacceptable content, require CSV content"},
		},
		{
			name:        "empty body",
			contentType: "text/csv",
			body:        "",
			errresp:     &ResponseMsg{Message: "Wrong csv content, no content"},
		},
		{
			name:        "header only",
			contentType: "text/csv",
			body:        header,
			errresp:     &ResponseMsg{Message: "Wrong csv content, should have more than 1 row due to it is header"},
		},
		{
			name:        "wrong header",
			contentType: "text/csv",
			body:        "salary,business,gains,property,other\n1,2,3,4,5\n",
			errresp:     &ResponseMsg{Message: "Wrong csv header"},
		},
		{
			name:        "wrong column length",
			contentType: "text/csv",
			body:        "totalIncome,wht,donation\n500000,0,0\n",
			errresp:     &ResponseMsg{Message: "Wrong csv column length"},
		},
		{
			name:        "not a number",
			contentType: "text/csv",
			body:        header + "1000000,abc,0,0,0\n",
			errresp:     &ResponseMsg{Message: "Invalid businessIncome amount at row 1"},
		},
		{
			name:        "negative amount",
			contentType: "text/csv",
			body:        header + "1000000,0,0,0,0\n0,0,0,0,-5\n",
			errresp:     &ResponseMsg{Message: "Invalid otherIncome amount at row 2"},
		},
		{
			name:        "NaN amount",
			contentType: "text/csv",
			body:        header + "NaN,0,0,0,0\n",
			errresp:     &ResponseMsg{Message: "Invalid salaryIncome amount at row 1"},
		},
		{
			name:        "infinite amount",
			contentType: "text/csv",
			body:        header + "0,0,Inf,0,0\n",
			errresp:     &ResponseMsg{Message: "Invalid capitalGains amount at row 1"},
		},
		{
			name:        "total overflows",
			contentType: "text/csv",
			body:        header + "1000000,0,0,0,0\n1e308,1e308,0,0,0\n",
			errresp:     &ResponseMsg{Message: "Amount too large at row 2"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTaxHandler(validator.New(), calculator.New(nil), nullLogger())

			req := httptest.NewRequest(http.MethodPost, "/tax/calculations/upload-csv", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := httptest.NewRecorder()

			assert.NoError(t, h.CalculateTaxWithCSV(echo.New().NewContext(req, rec)))

			if tc.errresp != nil {
				var errresp ResponseMsg

				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errresp))
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, *tc.errresp, errresp)

				return
			}

			var got TaxCSVResponse

			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, got.Taxes, len(tc.want))

			for i, want := range tc.want {
				assert.InDelta(t, want.TotalIncome, got.Taxes[i].TotalIncome, 1e-6)
				assert.InDelta(t, want.TaxDue, got.Taxes[i].TaxDue, 1e-6)
				assert.InDelta(t, want.NetIncome, got.Taxes[i].NetIncome, 1e-6)
				assert.InDelta(t, want.EffectiveRate, got.Taxes[i].EffectiveRate, 1e-9)
			}
		})
	}
}

func TestTaxListSlabs(t *testing.T) {
	h := NewTaxHandler(validator.New(), calculator.New(nil), nullLogger())

	req := httptest.NewRequest(http.MethodGet, "/tax/slabs", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, h.ListSlabs(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got SlabsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Slabs, 6)

	assert.Equal(t, "Up to PKR 600,000", got.Slabs[0].Level)
	require.NotNil(t, got.Slabs[0].Max)
	assert.Equal(t, 600_000.0, *got.Slabs[0].Max)

	top := got.Slabs[5]
	assert.Equal(t, "Above PKR 6,000,000", top.Level)
	assert.Nil(t, top.Max)
	assert.InDelta(t, 35, top.Rate, 1e-9)
	assert.InDelta(t, 6_000_000, top.Lower, 1e-9)
	assert.InDelta(t, 1_230_000, top.Base, 1e-6)
}
