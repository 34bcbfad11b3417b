package derived

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumeric(t *testing.T) {
	str := "42"
	var nilStr *string
	tests := []struct {
		in   interface{}
		want int64
	}{
		{nil, 0},
		{7, 7},
		{int64(-3), -3},
		{uint8(9), 9},
		{3.9, 3},
		{-3.9, -3},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{"1500000", 1_500_000},
		{"  25 ", 25},
		{"12abc", 12},
		{"-8", -8},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{true, 0},
		{&str, 42},
		{nilStr, 0},
		{json.Number("99"), 99},
		{[]int{1}, 0},
		{map[string]int{"a": 1}, 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CoerceNumeric(tc.in), "input %#v", tc.in)
	}
}

func TestCoerceString(t *testing.T) {
	s := "x"
	var nilStr *string
	assert.Equal(t, "", CoerceString(nil))
	assert.Equal(t, "abc", CoerceString("abc"))
	assert.Equal(t, "x", CoerceString(&s))
	assert.Equal(t, "", CoerceString(nilStr))
	assert.Equal(t, "", CoerceString(12))
	assert.Equal(t, "closed-won", CoerceString(StageClosedWon))
}

func TestNumberUnmarshalCoercesFormInput(t *testing.T) {
	var payload struct {
		Tuition  Number  `json:"tuition_fee"`
		Discount Number  `json:"discount_amount"`
		Paid     Number  `json:"paid_amount"`
		Salary   Number  `json:"salary"`
		Workload Number  `json:"workload"`
		Optional *Number `json:"optional"`
		Flag     Number  `json:"flag"`
	}

	body := `{"tuition_fee":"3500000","discount_amount":"","paid_amount":1500000.7,"salary":null,"workload":"80%","optional":null,"flag":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, Number(3_500_000), payload.Tuition)
	assert.Equal(t, Number(0), payload.Discount)
	assert.Equal(t, Number(1_500_000), payload.Paid)
	assert.Equal(t, Number(0), payload.Salary)
	assert.Equal(t, Number(80), payload.Workload)
	assert.Nil(t, payload.Optional)
	assert.Equal(t, Number(0), payload.Flag)
	assert.Equal(t, int64(3_500_000), payload.Tuition.Int64())
}
