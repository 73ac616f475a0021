package models

// ColumnMapping binds the semantic fields the pipeline cares about to actual
// column names in the uploaded data. The JSON keys match the labels the
// upload page has always sent, so existing clients keep working.
type ColumnMapping struct {
	ProductName string `json:"Product Name,omitempty"`
	SalesVolume string `json:"Sales Volume,omitempty"`
	Price       string `json:"Price,omitempty"`
	Date        string `json:"Date,omitempty"`
}

// columnSynonyms drives auto-matching when the user leaves a field unbound.
var columnSynonyms = map[string][]string{
	"Product Name": {"product_name", "product", "item"},
	"Sales Volume": {"quantity_sold", "quantity", "volume"},
	"Price":        {"price", "amount", "cost"},
	"Date":         {"date_sold", "date", "timestamp"},
}

// AutoMapColumns fills the unbound fields of a mapping with the first synonym
// present in the dataset's columns. Already-bound fields are left alone.
func AutoMapColumns(mapping ColumnMapping, columns []string) ColumnMapping {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}

	match := func(field string) string {
		for _, candidate := range columnSynonyms[field] {
			if present[candidate] {
				return candidate
			}
		}
		return ""
	}

	if mapping.ProductName == "" {
		mapping.ProductName = match("Product Name")
	}
	if mapping.SalesVolume == "" {
		mapping.SalesVolume = match("Sales Volume")
	}
	if mapping.Price == "" {
		mapping.Price = match("Price")
	}
	if mapping.Date == "" {
		mapping.Date = match("Date")
	}
	return mapping
}

// ProductColumn returns the bound entity-name column, or the historical
// default when the mapping leaves it open.
func (m ColumnMapping) ProductColumn() string {
	if m.ProductName != "" {
		return m.ProductName
	}
	return "product"
}

// VolumeColumn returns the bound volume column, or the historical default.
func (m ColumnMapping) VolumeColumn() string {
	if m.SalesVolume != "" {
		return m.SalesVolume
	}
	return "quantity"
}
