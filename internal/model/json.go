package model

import "github.com/shopspring/decimal"

func init() {
	// monetary amounts render as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}
