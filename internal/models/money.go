package models

import "github.com/shopspring/decimal"

func init() {
	// amounts are emitted as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}
