package catalog

// DefaultStores is the ten-store US chain simulated when no catalog file is
// given.
func DefaultStores() []Store {
	return []Store{
		{ID: "store_001", Location: "New York", Size: SizeLarge, BaseTraffic: 1000},
		{ID: "store_002", Location: "Los Angeles", Size: SizeLarge, BaseTraffic: 950},
		{ID: "store_003", Location: "Chicago", Size: SizeMedium, BaseTraffic: 800},
		{ID: "store_004", Location: "Houston", Size: SizeMedium, BaseTraffic: 650},
		{ID: "store_005", Location: "Phoenix", Size: SizeSmall, BaseTraffic: 400},
		{ID: "store_006", Location: "Philadelphia", Size: SizeMedium, BaseTraffic: 600},
		{ID: "store_007", Location: "San Antonio", Size: SizeSmall, BaseTraffic: 350},
		{ID: "store_008", Location: "San Diego", Size: SizeMedium, BaseTraffic: 550},
		{ID: "store_009", Location: "Dallas", Size: SizeLarge, BaseTraffic: 850},
		{ID: "store_010", Location: "Miami", Size: SizeMedium, BaseTraffic: 600},
	}
}

// DefaultProducts is the twenty-product assortment across four categories.
func DefaultProducts() []Product {
	return []Product{
		// Electronics
		{ID: "Elec_001", Name: "Smartphone", Category: "Electronics", Price: 699, Margin: 0.15, Seasonality: SeasonHolidays},
		{ID: "Elec_002", Name: "Laptop", Category: "Electronics", Price: 999, Margin: 0.10, Seasonality: SeasonBackToSchool},
		{ID: "Elec_003", Name: "Headphones", Category: "Electronics", Price: 199, Margin: 0.20, Seasonality: SeasonHolidays},
		{ID: "Elec_004", Name: "Smartwatch", Category: "Electronics", Price: 299, Margin: 0.18, Seasonality: SeasonHolidays},
		{ID: "Elec_005", Name: "Tablet", Category: "Electronics", Price: 499, Margin: 0.12, Seasonality: SeasonBackToSchool},

		// Clothing
		{ID: "Cloth_001", Name: "Jeans", Category: "Clothing", Price: 59, Margin: 0.40, Seasonality: SeasonSummer},
		{ID: "Cloth_002", Name: "T-Shirt", Category: "Clothing", Price: 25, Margin: 0.50, Seasonality: SeasonSummer},
		{ID: "Cloth_003", Name: "Jacket", Category: "Clothing", Price: 120, Margin: 0.35, Seasonality: SeasonWinter},
		{ID: "Cloth_004", Name: "Sneakers", Category: "Clothing", Price: 80, Margin: 0.30, Seasonality: SeasonBackToSchool},
		{ID: "Cloth_005", Name: "Dress", Category: "Clothing", Price: 70, Margin: 0.45, Seasonality: SeasonSummer},

		// Home Goods
		{ID: "Home_001", Name: "Blender", Category: "Home Goods", Price: 150, Margin: 0.25, Seasonality: SeasonHolidays},
		{ID: "Home_002", Name: "Vacuum Cleaner", Category: "Home Goods", Price: 200, Margin: 0.22, Seasonality: SeasonHolidays},
		{ID: "Home_003", Name: "Coffee Maker", Category: "Home Goods", Price: 100, Margin: 0.30, Seasonality: SeasonHolidays},
		{ID: "Home_004", Name: "Air Fryer", Category: "Home Goods", Price: 120, Margin: 0.28, Seasonality: SeasonHolidays},
		{ID: "Home_005", Name: "Toaster", Category: "Home Goods", Price: 40, Margin: 0.35, Seasonality: SeasonNone},

		// Sports
		{ID: "Sport_001", Name: "Running Shoes", Category: "Sports", Price: 90, Margin: 0.30, Seasonality: SeasonSummer},
		{ID: "Sport_002", Name: "Yoga Mat", Category: "Sports", Price: 40, Margin: 0.50, Seasonality: SeasonNone},
		{ID: "Sport_003", Name: "Dumbbell Set", Category: "Sports", Price: 150, Margin: 0.25, Seasonality: SeasonNone},
		{ID: "Sport_004", Name: "Bicycle", Category: "Sports", Price: 300, Margin: 0.20, Seasonality: SeasonSummer},
		{ID: "Sport_005", Name: "Tennis Racket", Category: "Sports", Price: 120, Margin: 0.30, Seasonality: SeasonSummer},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultStores(), DefaultProducts())
	if err != nil {
		// The built-in tables are static; failing here is a programming error.
		panic(err)
	}
	return c
}
