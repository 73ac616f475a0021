package services

import "sort"

// ecommercePresetCSV is the embedded quick-commerce demo dataset. It runs
// through the same pipeline as an upload, so demo environments get a real
// analysis without a file or a reachable insights service.
const ecommercePresetCSV = `product,category,quantity_sold,price,date,region,lat,lon,competitor_price,market_share,growth_rate,delivery_time,customer_rating,stock_level,reorder_point,competitor_name,trend_direction
Wireless Headphones,Electronics,120,59.99,2025-09-01,North,28.7041,77.1025,54.99,12.5,15.2,25,4.5,45,30,CompetitorA,up
Smart Watch,Electronics,85,129.99,2025-09-01,North,28.7041,77.1025,119.99,8.7,22.1,22,4.7,28,25,CompetitorB,up
Organic Almonds,Groceries,200,12.50,2025-09-01,West,19.0760,72.8777,11.99,8.2,9.5,18,4.2,15,120,CompetitorC,down
Premium Coffee,Groceries,175,24.99,2025-09-01,West,19.0760,72.8777,22.99,7.5,12.8,20,4.4,85,70,CompetitorA,up
Running Shoes,Fashion,90,79.99,2025-09-01,South,12.9716,77.5946,74.99,6.8,-2.3,30,4.1,55,40,CompetitorB,down`

// FixtureProvider hands out embedded demo datasets. Fixtures are injected
// into the components that need them instead of living as package globals,
// so tests can substitute their own.
type FixtureProvider struct {
	presets map[string]string
}

func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{
		presets: map[string]string{
			"ecommerce": ecommercePresetCSV,
		},
	}
}

// Preset returns the raw CSV text of a named demo dataset.
func (f *FixtureProvider) Preset(name string) (string, bool) {
	csvText, ok := f.presets[name]
	return csvText, ok
}

// Names lists available presets in stable order.
func (f *FixtureProvider) Names() []string {
	names := make([]string, 0, len(f.presets))
	for name := range f.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
