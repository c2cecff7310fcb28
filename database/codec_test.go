package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type money struct {
	Amount decimal.Decimal `bson:"amount"`
}

func TestDecimalCodecPreservesPrecision(t *testing.T) {
	reg := NewRegistry()
	in := money{Amount: decimal.RequireFromString("100.10")}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var out money
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, in.Amount.Equal(out.Amount), "got %s", out.Amount)
}

func TestDecimalCodecReadsLegacyNumbers(t *testing.T) {
	reg := NewRegistry()
	cases := map[string]bson.M{
		"double": {"amount": 12.5},
		"int32":  {"amount": int32(7)},
		"int64":  {"amount": int64(9000)},
		"string": {"amount": "3.33"},
	}
	want := map[string]string{"double": "12.5", "int32": "7", "int64": "9000", "string": "3.33"}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := bson.Marshal(doc)
			require.NoError(t, err)

			var out money
			require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
			assert.True(t, decimal.RequireFromString(want[name]).Equal(out.Amount), "got %s", out.Amount)
		})
	}
}
