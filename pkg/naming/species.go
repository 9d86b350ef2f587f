package naming

import "github.com/dnaconvert/dnaconvert/pkg/record"

// speciesFields lists, by priority, field names that hold a species name.
var speciesFields = []string{
	"organism",
	"scientificname",
	"identification/fullscientificnamestring",
	"scientific name",
	"scientific_name",
	"species",
	"speciesname",
	"species name",
	"species_name",
}

// SpeciesField returns the first species-like field declared by schema, or ""
// when there is none.
func SpeciesField(schema *record.Schema) string {
	for _, f := range speciesFields {
		if schema.Has(f) {
			return f
		}
	}
	return ""
}
