package gen

import (
	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/load"
)

// TableName derives the table name of a model: the lower-cased name with
// a naive English plural. Names ending in "y" take "ies", names ending in
// "s" take "es", all others take "s".
//
//	TableName("User")     // "users"
//	TableName("Category") // "categories"
//	TableName("Address")  // "addresses"
func TableName(name string) (string, error) {
	if name == "" {
		return "", modelgen.NewInvalidNameError(name)
	}
	return load.Pluralize(name), nil
}
