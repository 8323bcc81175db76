package validator

import "github.com/santhosh-tekuri/jsonschema/v5"

// tradelineSchemaJSON guards only the critical fields: output missing a
// creditor_name or account_number cannot be repaired locally. Every other
// field is coerced or defaulted per field so one wrong-typed value never
// discards the rest of the entry.
const tradelineSchemaJSON = `{
	"type": "object",
	"required": ["creditor_name", "account_number"],
	"properties": {
		"creditor_name":  {"type": "string", "minLength": 1},
		"account_number": {"type": "string", "minLength": 1}
	}
}`

var tradelineSchema = jsonschema.MustCompileString("tradeline.json", tradelineSchemaJSON)
