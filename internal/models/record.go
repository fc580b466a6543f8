package models

// Record is one normalized listing row. It always carries exactly the
// canonical columns; a column with no source value is present with a nil
// value (the missing marker), which becomes an empty CSV cell and a SQL NULL.
type Record map[string]any

// Columns lists the canonical output columns in the order CSV files and the
// destination table use them.
func Columns() []string {
	return []string{
		"id",
		"address",
		"city",
		"state",
		"state_fips",
		"zip_code",
		"county",
		"county_fips",
		"latitude",
		"longitude",
		"property_type",
		"bedrooms",
		"bathrooms",
		"square_footage",
		"year_built",
	}
}

// NumericColumns lists the canonical columns holding numeric values. Every
// other column is text. FIPS codes and zip codes stay text to preserve
// leading zeros.
func NumericColumns() []string {
	return []string{
		"latitude",
		"longitude",
		"bedrooms",
		"bathrooms",
		"square_footage",
		"year_built",
	}
}

// AliasTable maps known alternate source field names onto canonical column
// names. The listings API uses camel case for most fields; county_Fips shows
// up in older exports.
func AliasTable() map[string]string {
	return map[string]string{
		"formattedAddress": "address",
		"zipCode":          "zip_code",
		"stateFips":        "state_fips",
		"countyFips":       "county_fips",
		"county_Fips":      "county_fips",
		"propertyType":     "property_type",
		"squareFootage":    "square_footage",
		"yearBuilt":        "year_built",
	}
}
